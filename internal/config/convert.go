package config

import (
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/alexanderramin/cadence/internal/tracker"
)

// Constraints converts the capacity and deadline settings.
func (c *Config) Constraints() (domain.Constraints, error) {
	out := domain.Constraints{
		GlobalCapacity:   c.Capacity.Global,
		SubGroupCapacity: c.Capacity.SubGroup,
		LoadThreshold:    c.Capacity.LoadThreshold,
		DoneOffsetDays:   c.Capacity.DoneOffsetDays,
		Deadlines:        make(map[domain.Category]time.Time),
	}
	for cat, raw := range map[domain.Category]string{
		domain.CategoryActivityLog: c.Deadlines.ActivityLog,
		domain.CategorySearch:      c.Deadlines.Search,
		domain.CategoryOrphan:      c.Deadlines.Orphan,
	} {
		if raw == "" {
			continue
		}
		d, err := domain.ParseDay(raw)
		if err != nil {
			return domain.Constraints{}, fmt.Errorf("parsing %s deadline: %w", cat, err)
		}
		out.Deadlines[cat] = d
	}
	return out, nil
}

// BlackoutWindow converts the blackout settings. Unset dates give the zero
// window.
func (c *Config) BlackoutWindow() (domain.BlackoutWindow, error) {
	if c.Blackout.Start == "" {
		return domain.BlackoutWindow{}, nil
	}
	start, err := domain.ParseDay(c.Blackout.Start)
	if err != nil {
		return domain.BlackoutWindow{}, fmt.Errorf("parsing blackout start: %w", err)
	}
	end, err := domain.ParseDay(c.Blackout.End)
	if err != nil {
		return domain.BlackoutWindow{}, fmt.Errorf("parsing blackout end: %w", err)
	}
	return domain.BlackoutWindow{Start: start, End: end, ExtensionDays: c.Blackout.ExtensionDays}, nil
}

// Reference returns the configured planning day, or today when unset.
func (c *Config) Reference(now time.Time) (time.Time, error) {
	if c.Planning.Reference == "" {
		return domain.Day(now), nil
	}
	d, err := domain.ParseDay(c.Planning.Reference)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing reference date: %w", err)
	}
	return d, nil
}

func (c *Config) DurationTable() scheduler.DurationTable {
	conv := func(r RangeConfig) scheduler.DurationRange {
		return scheduler.DurationRange{MinDays: r.Min, MaxDays: r.Max, DefaultDays: r.Default}
	}
	return scheduler.DurationTable{
		domain.ItemLarge: conv(c.Durations.Large),
		domain.ItemSmall: conv(c.Durations.Small),
	}
}

// Estimator samples durations when a seed is configured and uses the
// per-type defaults otherwise.
func (c *Config) Estimator() scheduler.Estimator {
	if c.Planning.Seed != 0 {
		return scheduler.NewSeededEstimator(c.DurationTable(), c.Planning.Seed)
	}
	return scheduler.NewFixedEstimator(c.DurationTable())
}

// SchedulerOptions bundles everything ScheduleAll needs.
func (c *Config) SchedulerOptions(now time.Time) (scheduler.Options, error) {
	ref, err := c.Reference(now)
	if err != nil {
		return scheduler.Options{}, err
	}
	cons, err := c.Constraints()
	if err != nil {
		return scheduler.Options{}, err
	}
	blackout, err := c.BlackoutWindow()
	if err != nil {
		return scheduler.Options{}, err
	}
	return scheduler.Options{
		Reference:   ref,
		Constraints: cons,
		Blackout:    blackout,
		Estimator:   c.Estimator(),
	}, nil
}

// RetryConfig maps the retry settings onto tracker backoff. Retries counts
// attempts after the first one.
func (c *Config) RetryConfig() tracker.RetryConfig {
	rc := tracker.DefaultRetryConfig()
	rc.MaxAttempts = c.Tracker.Retries + 1
	if c.Tracker.RetryDelay > 0 {
		rc.BaseDelay = c.Tracker.RetryDelay
	}
	return rc
}

func (c *Config) AzureBoards() tracker.AzureBoardsConfig {
	az := c.Tracker.Azure
	return tracker.AzureBoardsConfig{
		Binary:        az.Binary,
		Organization:  az.Organization,
		Project:       az.Project,
		AreaPath:      az.AreaPath,
		IterationPath: az.IterationPath,
	}
}
