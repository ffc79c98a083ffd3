package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/tracker"
)

type syncService struct {
	deps     Deps
	settings Settings
	observer UseCaseObserver
}

func NewSyncService(deps Deps, settings Settings, observers ...UseCaseObserver) SyncService {
	return &syncService{deps: deps, settings: settings, observer: useCaseObserverOrNoop(observers)}
}

// SyncTargets copies each tagged item's finish date into its target date.
// Items without a finish date, or whose details cannot be read, are skipped.
func (s *syncService) SyncTargets(ctx context.Context, req app.SyncRequest) (resp *app.SyncResponse, err error) {
	fields := map[string]any{"apply": req.Apply}
	defer observe(ctx, s.observer, "sync-targets", time.Now(), fields, &err)

	ids, err := s.deps.Tracker.QueryByTag(ctx, s.settings.Tag)
	if err != nil {
		return nil, trackerError("querying tagged items", err)
	}
	if len(ids) == 0 {
		return nil, &app.UseCaseError{Code: app.ErrNoItems, Message: fmt.Sprintf("no work items tagged %q", s.settings.Tag)}
	}

	resp = &app.SyncResponse{Applied: req.Apply}
	for _, id := range ids {
		d, err := s.deps.Tracker.GetDetails(ctx, id)
		if err != nil {
			s.deps.Logger.Warn().Err(err).Str("item", id).Msg("details unavailable")
			resp.Skipped = append(resp.Skipped, app.SkippedItem{
				ID: id, Title: "Error retrieving details", Reason: err.Error(),
			})
			continue
		}
		if d.FinishDate == nil {
			resp.Skipped = append(resp.Skipped, app.SkippedItem{ID: d.ID, Title: d.Title, Reason: "no finish date"})
			continue
		}

		finish := domain.Day(*d.FinishDate)
		upd := app.DateUpdate{ID: d.ID, Title: d.Title, Finish: finish, PrevTarget: d.TargetDate}
		if req.Apply {
			if err := s.deps.Tracker.UpdateFields(ctx, d.ID, tracker.Fields{TargetDate: &finish}); err != nil {
				s.deps.Logger.Error().Err(err).Str("item", d.ID).Msg("target update failed")
				resp.Failures = append(resp.Failures, app.ItemFailure{ID: d.ID, Op: "update", Err: err})
			} else {
				upd.Applied = true
			}
		}
		resp.Updated = append(resp.Updated, upd)
	}

	s.deps.Metrics.RecordRun(string(domain.RunSync), req.Apply)
	if req.Record {
		resp.RunID = s.deps.recordAndWarn(ctx, syncRun(resp), &resp.Warnings)
	}

	fields["updated"] = len(resp.Updated)
	fields["skipped"] = len(resp.Skipped)
	s.deps.Logger.Info().
		Int("updated", len(resp.Updated)).
		Int("skipped", len(resp.Skipped)).
		Bool("apply", req.Apply).
		Msg("target sync complete")
	return resp, nil
}

func syncRun(resp *app.SyncResponse) *domain.PlanRun {
	run := &domain.PlanRun{Kind: domain.RunSync, Applied: resp.Applied}
	failed := make(map[string]string, len(resp.Failures))
	for _, f := range resp.Failures {
		failed[f.ID] = f.Err.Error()
	}
	for _, u := range resp.Updated {
		finish := u.Finish
		run.Add(domain.RunItem{
			ItemID:     u.ID,
			Title:      u.Title,
			Kind:       domain.RunItemWork,
			TargetDate: &finish,
			Note:       failed[u.ID],
		})
	}
	for _, sk := range resp.Skipped {
		run.Add(domain.RunItem{ItemID: sk.ID, Title: sk.Title, Kind: domain.RunItemSkipped, Note: sk.Reason})
	}
	return run
}
