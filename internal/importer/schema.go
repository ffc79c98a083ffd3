package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// BacklogFile is the top-level structure of a backlog file.
type BacklogFile struct {
	Items []BacklogRow `json:"items" yaml:"items"`
}

// BacklogRow is one row of a planning table. Signal columns hold free text;
// a "+" marks the signal as present.
type BacklogRow struct {
	ID            string `json:"id,omitempty" yaml:"id,omitempty"`
	Feature       string `json:"feature" yaml:"feature"`
	Effort        string `json:"effort" yaml:"effort"`
	Progress      string `json:"progress,omitempty" yaml:"progress,omitempty"`
	SearchUI      string `json:"search_ui,omitempty" yaml:"search_ui,omitempty"`
	Shim          string `json:"shim,omitempty" yaml:"shim,omitempty"`
	ActivityLog   string `json:"activity_log,omitempty" yaml:"activity_log,omitempty"`
	ParentFeature string `json:"parent_feature,omitempty" yaml:"parent_feature,omitempty"`
	// SubGroup defaults to true when ParentFeature is set.
	SubGroup     *bool `json:"sub_group,omitempty" yaml:"sub_group,omitempty"`
	DurationDays *int  `json:"duration_days,omitempty" yaml:"duration_days,omitempty"`
}

// LoadBacklog reads a backlog file. Files ending in .json are parsed as
// JSON, everything else as YAML.
func LoadBacklog(path string) (*BacklogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBacklog(data, strings.EqualFold(filepath.Ext(path), ".json"))
}

func ParseBacklog(data []byte, isJSON bool) (*BacklogFile, error) {
	var file BacklogFile
	if isJSON {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing backlog json: %w", err)
		}
		return &file, nil
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing backlog yaml: %w", err)
	}
	return &file, nil
}
