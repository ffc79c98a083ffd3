package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/importer"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type scheduleService struct {
	deps     Deps
	settings Settings
	observer UseCaseObserver
}

// NewScheduleService schedules local backlog files. It never touches the
// tracker, so deps.Tracker may be nil.
func NewScheduleService(deps Deps, settings Settings, observers ...UseCaseObserver) ScheduleService {
	return &scheduleService{deps: deps, settings: settings, observer: useCaseObserverOrNoop(observers)}
}

func (s *scheduleService) Schedule(ctx context.Context, req app.ScheduleRequest) (resp *app.ScheduleResponse, err error) {
	fields := map[string]any{"backlog": req.BacklogPath}
	defer observe(ctx, s.observer, "schedule", time.Now(), fields, &err)

	file, err := importer.LoadBacklog(req.BacklogPath)
	if err != nil {
		return nil, &app.UseCaseError{Code: app.ErrInvalidInput, Message: "loading backlog", Err: err}
	}
	if errs := importer.ValidateBacklog(file); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	backlog := importer.Convert(file)
	if len(backlog.Items)+len(backlog.SubGroup) == 0 {
		return nil, &app.UseCaseError{Code: app.ErrNoItems, Message: fmt.Sprintf("no schedulable rows in %s", req.BacklogPath)}
	}

	opts := s.settings.options(req.Now)
	result, err := scheduler.ScheduleAll(backlog.Items, backlog.SubGroup, opts)
	if err != nil {
		return nil, fmt.Errorf("scheduling backlog: %w", err)
	}

	resp = &app.ScheduleResponse{
		Reference: opts.Reference,
		Blackout:  opts.Blackout,
		Result:    result,
		Parents:   scheduler.RollupByParent(result.All),
	}
	for _, sk := range backlog.Skipped {
		resp.Skipped = append(resp.Skipped, app.SkippedItem{ID: fmt.Sprintf("row %d", sk.Index+1), Reason: sk.Reason})
	}

	observeResult(s.deps.Metrics, result)
	s.deps.Metrics.RecordRun(string(domain.RunSchedule), false)

	if req.Record {
		var warnings []string
		resp.RunID = s.deps.recordAndWarn(ctx, s.scheduleRun(resp), &warnings)
	}

	fields["scheduled"] = len(result.All)
	fields["blackout_impacted"] = result.BlackoutImpacted()
	return resp, nil
}

func (s *scheduleService) scheduleRun(resp *app.ScheduleResponse) *domain.PlanRun {
	ref := resp.Reference
	run := &domain.PlanRun{
		Kind:      domain.RunSchedule,
		Reference: &ref,
		Blackout:  resp.Blackout.String(),
		Seed:      s.settings.Seed,
	}
	for _, w := range resp.Result.All {
		run.Add(domain.NewRunItem(*w))
	}
	for _, p := range resp.Parents {
		run.Add(domain.NewSpanItem(domain.RunItemParent, "", p.Title, p.Span))
	}
	for _, sk := range resp.Skipped {
		run.Add(domain.RunItem{ItemID: sk.ID, Kind: domain.RunItemSkipped, Note: sk.Reason})
	}
	return run
}
