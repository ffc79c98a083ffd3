package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/metrics"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/alexanderramin/cadence/internal/tracker"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Deps are the collaborators shared by the services. UoW and Metrics may be
// nil; runs are then not recorded and nothing is counted.
type Deps struct {
	Tracker tracker.Client
	UoW     db.UnitOfWork
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// Settings carry the planning configuration.
type Settings struct {
	Tag         string
	SubGroupTag string
	// TitlePrefix is prepended to created titles and stripped before
	// matching parent features.
	TitlePrefix string
	Scheduler   scheduler.Options
	Seed        uint64
}

// options returns the scheduler options, with the reference day taken from
// now when the request pins one.
func (s Settings) options(now *time.Time) scheduler.Options {
	opts := s.Scheduler
	if now != nil {
		opts.Reference = domain.Day(*now)
	}
	return opts
}

func (s Settings) title(feature string) string {
	return strings.TrimSpace(s.TitlePrefix + " " + strings.TrimSpace(feature))
}

func (s Settings) stripPrefix(title string) string {
	if s.TitlePrefix == "" {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(title), s.TitlePrefix))
}

// record persists run in one transaction. It is a no-op without a UoW.
func (d Deps) record(ctx context.Context, run *domain.PlanRun) (bool, error) {
	if d.UoW == nil {
		return false, nil
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	err := d.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteRunRepo(tx).Create(ctx, run)
	})
	if err != nil {
		return false, fmt.Errorf("recording %s run: %w", run.Kind, err)
	}
	return true, nil
}

// recordAndWarn records run and turns a storage failure into a warning: the
// tracker writes already happened and must still be reported.
func (d Deps) recordAndWarn(ctx context.Context, run *domain.PlanRun, warnings *[]string) string {
	ok, err := d.record(ctx, run)
	if err != nil {
		d.Logger.Warn().Err(err).Str("kind", string(run.Kind)).Msg("run history not saved")
		*warnings = append(*warnings, err.Error())
		return ""
	}
	if !ok {
		return ""
	}
	return run.ID
}

// observeResult feeds a schedule result into the metrics.
func observeResult(m *metrics.Metrics, result *scheduler.Result) {
	for _, w := range result.All {
		m.RecordScheduled(string(w.Category), string(w.State))
	}
	for _, p := range result.Placements {
		m.ObserveDelay(p.DelayDays)
	}
	m.SetBlackoutImpacted(result.BlackoutImpacted())
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("backlog validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return &app.UseCaseError{Code: app.ErrInvalidInput, Message: msg}
}

func trackerError(msg string, err error) error {
	return &app.UseCaseError{Code: app.ErrTracker, Message: msg, Err: err}
}
