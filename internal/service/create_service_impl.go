package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/importer"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/alexanderramin/cadence/internal/tracker"
)

type createService struct {
	deps     Deps
	settings Settings
	observer UseCaseObserver
}

func NewCreateService(deps Deps, settings Settings, observers ...UseCaseObserver) CreateService {
	return &createService{deps: deps, settings: settings, observer: useCaseObserverOrNoop(observers)}
}

func (s *createService) Create(ctx context.Context, req app.CreateRequest) (resp *app.CreateResponse, err error) {
	fields := map[string]any{"apply": req.Apply, "backlog": req.BacklogPath}
	defer observe(ctx, s.observer, "create", time.Now(), fields, &err)

	file, err := importer.LoadBacklog(req.BacklogPath)
	if err != nil {
		return nil, &app.UseCaseError{Code: app.ErrInvalidInput, Message: "loading backlog", Err: err}
	}
	if errs := importer.ValidateBacklog(file); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	backlog := importer.Convert(file)

	resp = &app.CreateResponse{Applied: req.Apply}
	for _, sk := range backlog.Skipped {
		resp.Skipped = append(resp.Skipped, app.SkippedItem{ID: fmt.Sprintf("row %d", sk.Index+1), Reason: sk.Reason})
	}

	// Rows are created before any parent link so a child may precede its
	// parent in the file.
	rows := make([]domain.WorkItem, 0, len(backlog.Items)+len(backlog.SubGroup))
	rows = append(rows, backlog.Items...)
	rows = append(rows, backlog.SubGroup...)
	subGroup := make(map[string]bool, len(backlog.SubGroup))
	for _, w := range backlog.SubGroup {
		subGroup[w.ID] = true
	}

	createdByFeature := make(map[string]string)
	for _, w := range rows {
		row := backlog.Rows[w.ID]
		tags := importer.Tags(row, s.settings.Tag)
		if subGroup[w.ID] && s.settings.SubGroupTag != "" {
			tags = append(tags, s.settings.SubGroupTag)
		}
		item := app.CreatedItem{
			RowID:         w.ID,
			Title:         s.settings.title(w.Title),
			Type:          w.Type.TrackerType(),
			State:         importer.TrackerState(row),
			Tags:          tags,
			ParentFeature: w.ParentTitle,
		}

		if req.Apply {
			id, err := s.deps.Tracker.CreateItem(ctx, tracker.NewItem{
				Type: item.Type, Title: item.Title, State: item.State, Tags: item.Tags,
			})
			if err != nil {
				s.deps.Logger.Error().Err(err).Str("row", w.ID).Msg("create failed")
				resp.Failures = append(resp.Failures, app.ItemFailure{ID: w.ID, Op: "create", Err: err})
			} else {
				item.TrackerID = id
				createdByFeature[featureKey(w.Title)] = id
				s.deps.Logger.Info().Str("id", id).Str("title", item.Title).Msg("created work item")
			}
		}
		resp.Items = append(resp.Items, item)
	}

	if req.Apply {
		s.linkParents(ctx, resp, createdByFeature)
	}

	s.deps.Metrics.RecordRun(string(domain.RunCreate), req.Apply)
	if req.Record {
		resp.RunID = s.deps.recordAndWarn(ctx, s.createRun(resp, subGroup), &resp.Warnings)
	}

	fields["items"] = len(resp.Items)
	fields["skipped"] = len(resp.Skipped)
	fields["failures"] = len(resp.Failures)
	return resp, nil
}

// linkParents relates created rows to parent features created in the same run.
func (s *createService) linkParents(ctx context.Context, resp *app.CreateResponse, createdByFeature map[string]string) {
	for i := range resp.Items {
		item := &resp.Items[i]
		if item.TrackerID == "" || item.ParentFeature == "" {
			continue
		}
		parentID, ok := createdByFeature[featureKey(item.ParentFeature)]
		if !ok {
			continue
		}
		if err := s.deps.Tracker.AddParentRelation(ctx, item.TrackerID, parentID); err != nil {
			s.deps.Logger.Error().Err(err).Str("id", item.TrackerID).Msg("parent link failed")
			resp.Failures = append(resp.Failures, app.ItemFailure{ID: item.TrackerID, Op: "relate", Err: err})
			continue
		}
		item.ParentID = parentID
	}
}

func featureKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func (s *createService) createRun(resp *app.CreateResponse, subGroup map[string]bool) *domain.PlanRun {
	run := &domain.PlanRun{Kind: domain.RunCreate, Applied: resp.Applied}
	failed := make(map[string]string, len(resp.Failures))
	for _, f := range resp.Failures {
		failed[f.ID] = f.Err.Error()
	}
	for _, it := range resp.Items {
		id := domain.Coalesce(it.TrackerID, it.RowID)
		run.Add(domain.RunItem{
			ItemID:   id,
			Title:    it.Title,
			Kind:     domain.RunItemWork,
			State:    scheduler.ClassifyProgress(tracker.ProgressLabel(it.State)),
			SubGroup: subGroup[it.RowID],
			Note:     domain.Coalesce(failed[it.RowID], failed[it.TrackerID]),
		})
	}
	for _, sk := range resp.Skipped {
		run.Add(domain.RunItem{ItemID: sk.ID, Kind: domain.RunItemSkipped, Note: sk.Reason})
	}
	return run
}
