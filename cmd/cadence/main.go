package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alexanderramin/cadence/internal/cli"
	"github.com/alexanderramin/cadence/internal/config"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/logging"
	"github.com/alexanderramin/cadence/internal/metrics"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/service"
	"github.com/alexanderramin/cadence/internal/tracker"
	gh "github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags, err := cli.ParseGlobalFlags(os.Args[1:])
	if err != nil {
		return err
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:  domain.Coalesce(flags.LogLevel, cfg.Log.Level),
		Format: cfg.Log.Format,
	})

	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	m := metrics.New()

	client, err := newTracker(cfg, m, logger)
	if err != nil {
		return err
	}

	opts, err := cfg.SchedulerOptions(time.Now())
	if err != nil {
		return err
	}

	deps := service.Deps{
		Tracker: client,
		UoW:     db.NewSQLiteUnitOfWork(database),
		Metrics: m,
		Logger:  logging.Named(logger, "service"),
	}
	settings := service.Settings{
		Tag:         cfg.Tracker.Tag,
		SubGroupTag: cfg.Tracker.SubGroupTag,
		TitlePrefix: cfg.Planning.TitlePrefix,
		Scheduler:   opts,
		Seed:        cfg.Planning.Seed,
	}
	observer := service.NewLogUseCaseObserver(logging.Named(logger, "usecase"))

	app := &cli.App{
		Plan:     service.NewPlanService(deps, settings, observer),
		Create:   service.NewCreateService(deps, settings, observer),
		Sync:     service.NewSyncService(deps, settings, observer),
		Schedule: service.NewScheduleService(deps, settings, observer),
		History:  service.NewHistoryService(repository.NewSQLiteRunRepo(database)),
		Flags:    flags,
	}
	if cli.IsInteractive() {
		app.Confirm = cli.HuhConfirm
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	execErr := cli.NewRootCmd(app).ExecuteContext(ctx)

	if flags.MetricsFile != "" {
		if err := m.WriteTextfile(flags.MetricsFile); err != nil {
			logger.Warn().Err(err).Str("path", flags.MetricsFile).Msg("metrics not written")
		}
	}
	return execErr
}

// newTracker builds the configured backend, wrapped with retries and call
// metrics.
func newTracker(cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) (tracker.Client, error) {
	var base tracker.Client
	switch cfg.Tracker.Kind {
	case "github":
		client, err := newGitHubClient(cfg.Tracker.GitHub, logger)
		if err != nil {
			return nil, err
		}
		base = tracker.NewGitHub(client, cfg.Tracker.GitHub.Owner, cfg.Tracker.GitHub.Repo)
	default:
		base = tracker.NewAzureBoards(tracker.ExecRunner{}, cfg.AzureBoards())
	}
	return tracker.WithObserver(tracker.WithRetry(base, cfg.RetryConfig()), m.RecordTrackerCall), nil
}

func newGitHubClient(c config.GitHubConfig, logger zerolog.Logger) (*gh.Client, error) {
	client := gh.NewClient(nil)
	if token := os.Getenv(c.TokenEnv); token != "" {
		client = client.WithAuthToken(token)
	} else {
		logger.Warn().Str("env", c.TokenEnv).Msg("no github token set, using unauthenticated requests")
	}
	if c.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(c.BaseURL, c.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring github enterprise url: %w", err)
		}
	}
	return client, nil
}
