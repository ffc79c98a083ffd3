// Package config loads cadence settings from cadence.yaml, CADENCE_* env
// vars and built-in defaults, in increasing order of precedence: defaults,
// file, env.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full cadence configuration.
type Config struct {
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	Planning  PlanningConfig  `mapstructure:"planning"`
	Capacity  CapacityConfig  `mapstructure:"capacity"`
	Blackout  BlackoutConfig  `mapstructure:"blackout"`
	Deadlines DeadlinesConfig `mapstructure:"deadlines"`
	Durations DurationsConfig `mapstructure:"durations"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
}

type TrackerConfig struct {
	// Kind selects the backend: azboards or github.
	Kind        string        `mapstructure:"kind" validate:"required,oneof=azboards github"`
	Tag         string        `mapstructure:"tag" validate:"required"`
	SubGroupTag string        `mapstructure:"sub_group_tag"`
	Azure       AzureConfig   `mapstructure:"azure"`
	GitHub      GitHubConfig  `mapstructure:"github"`
	Retries     int           `mapstructure:"retries" validate:"min=0,max=10"`
	RetryDelay  time.Duration `mapstructure:"retry_delay" validate:"min=0"`
}

type AzureConfig struct {
	Binary        string `mapstructure:"binary"`
	Organization  string `mapstructure:"organization" validate:"omitempty,url"`
	Project       string `mapstructure:"project"`
	AreaPath      string `mapstructure:"area_path"`
	IterationPath string `mapstructure:"iteration_path"`
}

type GitHubConfig struct {
	Owner    string `mapstructure:"owner"`
	Repo     string `mapstructure:"repo"`
	TokenEnv string `mapstructure:"token_env"`
	BaseURL  string `mapstructure:"base_url" validate:"omitempty,url"`
}

type PlanningConfig struct {
	// Reference is the planning day (YYYY-MM-DD); empty means today.
	Reference   string `mapstructure:"reference" validate:"omitempty,datetime=2006-01-02"`
	TitlePrefix string `mapstructure:"title_prefix"`
	// Seed enables sampled durations when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

type CapacityConfig struct {
	Global         int `mapstructure:"global" validate:"min=1"`
	SubGroup       int `mapstructure:"sub_group" validate:"min=1"`
	LoadThreshold  int `mapstructure:"load_threshold" validate:"min=1"`
	DoneOffsetDays int `mapstructure:"done_offset_days" validate:"min=0"`
}

type BlackoutConfig struct {
	Start         string `mapstructure:"start" validate:"omitempty,datetime=2006-01-02"`
	End           string `mapstructure:"end" validate:"omitempty,datetime=2006-01-02"`
	ExtensionDays int    `mapstructure:"extension_days" validate:"min=0"`
}

type DeadlinesConfig struct {
	ActivityLog string `mapstructure:"activity_log" validate:"omitempty,datetime=2006-01-02"`
	Search      string `mapstructure:"search" validate:"omitempty,datetime=2006-01-02"`
	Orphan      string `mapstructure:"orphan" validate:"omitempty,datetime=2006-01-02"`
}

type DurationsConfig struct {
	Large RangeConfig `mapstructure:"large"`
	Small RangeConfig `mapstructure:"small"`
}

type RangeConfig struct {
	Min     int `mapstructure:"min" validate:"min=1"`
	Max     int `mapstructure:"max" validate:"min=1"`
	Default int `mapstructure:"default" validate:"min=1"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error disabled off"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// setDefaults mirrors the reference planning run.
func setDefaults(v *viper.Viper) {
	v.SetDefault("tracker.kind", "azboards")
	v.SetDefault("tracker.tag", "draft->laqs")
	v.SetDefault("tracker.sub_group_tag", "LM")
	v.SetDefault("tracker.retries", 3)
	v.SetDefault("tracker.retry_delay", 500*time.Millisecond)
	v.SetDefault("tracker.azure.binary", "az")
	v.SetDefault("tracker.azure.organization", "https://msazure.visualstudio.com")
	v.SetDefault("tracker.azure.project", "One")
	v.SetDefault("tracker.azure.area_path", `One\LogAnalytics\QueryService`)
	v.SetDefault("tracker.azure.iteration_path", "")
	v.SetDefault("tracker.github.owner", "")
	v.SetDefault("tracker.github.repo", "")
	v.SetDefault("tracker.github.token_env", "GITHUB_TOKEN")
	v.SetDefault("tracker.github.base_url", "")

	v.SetDefault("planning.reference", "")
	v.SetDefault("planning.title_prefix", "[Draft->LAQS]")
	v.SetDefault("planning.seed", 0)

	v.SetDefault("capacity.global", 8)
	v.SetDefault("capacity.sub_group", 3)
	v.SetDefault("capacity.load_threshold", 4)
	v.SetDefault("capacity.done_offset_days", 7)

	v.SetDefault("blackout.start", "2025-09-22")
	v.SetDefault("blackout.end", "2025-10-14")
	v.SetDefault("blackout.extension_days", 23)

	v.SetDefault("deadlines.activity_log", "2025-09-30")
	v.SetDefault("deadlines.search", "2025-11-30")
	v.SetDefault("deadlines.orphan", "")

	v.SetDefault("durations.large.min", 21)
	v.SetDefault("durations.large.max", 35)
	v.SetDefault("durations.large.default", 28)
	v.SetDefault("durations.small.min", 7)
	v.SetDefault("durations.small.max", 14)
	v.SetDefault("durations.small.default", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.path", "")
}

// Load reads configuration. An explicit path must exist; otherwise
// cadence.yaml is looked up in the working directory and ~/.cadence, and a
// missing file just means defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CADENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("cadence")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".cadence"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.DB.Path == "" {
		p, err := defaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DB.Path = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration without reading any file or
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func defaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".cadence", "cadence.db"), nil
}
