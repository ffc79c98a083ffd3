package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/alexanderramin/cadence/internal/tracker"
)

type planService struct {
	deps     Deps
	settings Settings
	observer UseCaseObserver
}

func NewPlanService(deps Deps, settings Settings, observers ...UseCaseObserver) PlanService {
	return &planService{deps: deps, settings: settings, observer: useCaseObserverOrNoop(observers)}
}

// planInput is the tracker snapshot split into what gets scheduled and
// what gets a rollup.
type planInput struct {
	items    []domain.WorkItem
	subGroup []domain.WorkItem
	epics    []*tracker.ItemDetails
	parents  []*tracker.ItemDetails
	byID     map[string]*tracker.ItemDetails
	warnings []string
}

func (s *planService) Plan(ctx context.Context, req app.PlanRequest) (resp *app.PlanResponse, err error) {
	fields := map[string]any{"apply": req.Apply}
	defer observe(ctx, s.observer, "plan", time.Now(), fields, &err)

	log := s.deps.Logger
	opts := s.settings.options(req.Now)

	ids, err := s.deps.Tracker.QueryByTag(ctx, s.settings.Tag)
	if err != nil {
		return nil, trackerError("querying tagged items", err)
	}
	if len(ids) == 0 {
		return nil, &app.UseCaseError{Code: app.ErrNoItems, Message: fmt.Sprintf("no work items tagged %q", s.settings.Tag)}
	}
	log.Info().Int("items", len(ids)).Str("tag", s.settings.Tag).Msg("found tagged work items")

	in, err := s.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	fields["items"] = len(in.items) + len(in.subGroup)
	fields["epics"] = len(in.epics)

	result, err := scheduler.ScheduleAll(in.items, in.subGroup, opts)
	if err != nil {
		return nil, fmt.Errorf("scheduling items: %w", err)
	}

	resp = &app.PlanResponse{
		GeneratedAt: time.Now().UTC(),
		Reference:   opts.Reference,
		Blackout:    opts.Blackout,
		Applied:     req.Apply,
		Result:      result,
		Warnings:    in.warnings,
	}

	for _, w := range result.All {
		change := app.ItemChange{
			ID:             w.ID,
			Title:          w.Title,
			Category:       w.Category,
			State:          w.State,
			SubGroup:       w.SubGroup,
			Start:          w.StartDate,
			Target:         w.TargetDate,
			BlackoutImpact: w.BlackoutImpact,
		}
		if d, ok := in.byID[w.ID]; ok {
			change.PrevStart, change.PrevTarget = d.StartDate, d.TargetDate
		}
		if req.Apply {
			change.Applied = s.apply(ctx, w.ID, w.Dates(), resp)
		}
		resp.Changes = append(resp.Changes, change)
	}

	resp.Epics = s.rollupEpics(ctx, result, in.epics, req.Apply, resp)
	resp.Parents = s.rollupParents(ctx, result, in.parents, req.Apply, resp)

	observeResult(s.deps.Metrics, result)
	s.deps.Metrics.RecordRun(string(domain.RunPlan), req.Apply)

	if req.Record {
		resp.RunID = s.deps.recordAndWarn(ctx, s.planRun(resp), &resp.Warnings)
	}

	fields["blackout_impacted"] = result.BlackoutImpacted()
	fields["failures"] = len(resp.Failures)
	log.Info().
		Int("scheduled", len(result.All)).
		Int("blackout_impacted", result.BlackoutImpacted()).
		Int("failures", len(resp.Failures)).
		Bool("apply", req.Apply).
		Msg("plan complete")
	return resp, nil
}

// load fetches details for every id and builds the scheduling input.
func (s *planService) load(ctx context.Context, ids []string) (*planInput, error) {
	in := &planInput{byID: make(map[string]*tracker.ItemDetails, len(ids))}
	details := make([]*tracker.ItemDetails, 0, len(ids))
	for _, id := range ids {
		d, err := s.deps.Tracker.GetDetails(ctx, id)
		if err != nil {
			return nil, trackerError(fmt.Sprintf("fetching item #%s", id), err)
		}
		in.byID[d.ID] = d
		details = append(details, d)
	}

	for _, d := range details {
		switch {
		case d.IsEpic():
			in.epics = append(in.epics, d)
		case scheduler.IsSubGroupParent(s.settings.stripPrefix(d.Title)):
			in.parents = append(in.parents, d)
		default:
			w, sub := s.workItem(ctx, d, in)
			if sub {
				in.subGroup = append(in.subGroup, w)
			} else {
				in.items = append(in.items, w)
			}
		}
	}
	return in, nil
}

// workItem converts tracker details and reports whether the item belongs
// to the sub-group.
func (s *planService) workItem(ctx context.Context, d *tracker.ItemDetails, in *planInput) (domain.WorkItem, bool) {
	title := s.settings.stripPrefix(d.Title)
	w := domain.WorkItem{
		ID:            d.ID,
		Title:         d.Title,
		Type:          domain.ItemTypeFromTracker(d.Type),
		Signals:       scheduler.SignalsFromTitle(title),
		ProgressLabel: tracker.ProgressLabel(d.State),
	}

	sub := d.HasTag(s.settings.SubGroupTag)
	if d.ParentID != "" {
		parent := s.parentDetails(ctx, d.ParentID, in)
		if parent != nil {
			parentTitle := s.settings.stripPrefix(parent.Title)
			if scheduler.IsSubGroupParent(parentTitle) {
				sub = true
			}
			if sub {
				w.ParentTitle = parentTitle
			}
		}
	}
	return w, sub
}

// parentDetails finds a parent among the fetched items, fetching it when it
// was not tagged. A failed lookup is a warning.
func (s *planService) parentDetails(ctx context.Context, id string, in *planInput) *tracker.ItemDetails {
	if d, ok := in.byID[id]; ok {
		return d
	}
	d, err := s.deps.Tracker.GetDetails(ctx, id)
	if err != nil {
		s.deps.Logger.Warn().Err(err).Str("parent", id).Msg("parent lookup failed")
		in.warnings = append(in.warnings, fmt.Sprintf("parent #%s: %v", id, err))
		return nil
	}
	in.byID[d.ID] = d
	return d
}

// apply writes one span to the tracker, recording a failure instead of
// aborting the run.
func (s *planService) apply(ctx context.Context, id string, span domain.DateSpan, resp *app.PlanResponse) bool {
	err := s.deps.Tracker.UpdateFields(ctx, id, tracker.Fields{StartDate: span.Start, TargetDate: span.Target})
	if err != nil {
		s.deps.Logger.Error().Err(err).Str("item", id).Msg("date update failed")
		resp.Failures = append(resp.Failures, app.ItemFailure{ID: id, Op: "update", Err: err})
		return false
	}
	return true
}

// findEpic returns the first epic whose title matches.
func findEpic(epics []*tracker.ItemDetails, match func(title string) bool) *tracker.ItemDetails {
	for _, e := range epics {
		if match(e.Title) {
			return e
		}
	}
	return nil
}

// rollupEpics dates the three category epics. Each epic's span feeds the
// next: activity log into search, search into query.
func (s *planService) rollupEpics(ctx context.Context, result *scheduler.Result, epics []*tracker.ItemDetails, apply bool, resp *app.PlanResponse) []app.EpicSpan {
	activityLog := findEpic(epics, func(t string) bool { return strings.Contains(t, "Activity Log") })
	search := findEpic(epics, func(t string) bool {
		return strings.Contains(t, "/search") && !strings.Contains(t, "Activity Log")
	})
	query := findEpic(epics, func(t string) bool {
		return strings.Contains(t, "/query") && !strings.Contains(t, "/search")
	})

	var alChildren []domain.Dated
	for _, w := range result.Category(domain.CategoryActivityLog) {
		alChildren = append(alChildren, w)
	}
	for _, w := range result.Category(domain.CategoryOrphan) {
		alChildren = append(alChildren, w)
	}
	alSpan := scheduler.Rollup(alChildren)

	var searchChildren []domain.Dated
	for _, w := range result.Category(domain.CategorySearch) {
		searchChildren = append(searchChildren, w)
	}
	if activityLog != nil {
		searchChildren = append(searchChildren, alSpan)
	}
	searchSpan := scheduler.Rollup(searchChildren)

	queryChildren := make([]domain.Dated, 0, len(result.All)+1)
	for _, w := range result.All {
		queryChildren = append(queryChildren, w)
	}
	if search != nil {
		queryChildren = append(queryChildren, searchSpan)
	}
	querySpan := scheduler.Rollup(queryChildren)

	out := []app.EpicSpan{
		s.epicSpan(ctx, app.EpicActivityLog, activityLog, alSpan, apply, resp),
		s.epicSpan(ctx, app.EpicSearch, search, searchSpan, apply, resp),
		s.epicSpan(ctx, app.EpicQuery, query, querySpan, apply, resp),
	}
	return out
}

func (s *planService) epicSpan(ctx context.Context, role app.EpicRole, epic *tracker.ItemDetails, span domain.DateSpan, apply bool, resp *app.PlanResponse) app.EpicSpan {
	out := app.EpicSpan{Role: role, Span: span}
	if epic == nil {
		return out
	}
	out.ID, out.Title, out.Found = epic.ID, epic.Title, true
	if apply && span.Complete() {
		out.Applied = s.apply(ctx, epic.ID, span, resp)
	}
	return out
}

// rollupParents dates each synthetic parent feature from its sub-group
// children.
func (s *planService) rollupParents(ctx context.Context, result *scheduler.Result, parents []*tracker.ItemDetails, apply bool, resp *app.PlanResponse) []app.ParentUpdate {
	spans := make(map[string]scheduler.ParentSpan)
	for _, ps := range scheduler.RollupByParent(result.All) {
		spans[ps.Title] = ps
	}

	var out []app.ParentUpdate
	for _, p := range parents {
		ps, ok := spans[s.settings.stripPrefix(p.Title)]
		if !ok {
			continue
		}
		upd := app.ParentUpdate{ID: p.ID, Title: p.Title, Span: ps.Span, Children: ps.Children}
		if apply && ps.Span.Complete() {
			upd.Applied = s.apply(ctx, p.ID, ps.Span, resp)
		}
		out = append(out, upd)
	}
	return out
}

func (s *planService) planRun(resp *app.PlanResponse) *domain.PlanRun {
	ref := resp.Reference
	run := &domain.PlanRun{
		Kind:      domain.RunPlan,
		Reference: &ref,
		Applied:   resp.Applied,
		Blackout:  resp.Blackout.String(),
		Seed:      s.settings.Seed,
	}
	failed := make(map[string]string, len(resp.Failures))
	for _, f := range resp.Failures {
		failed[f.ID] = f.Err.Error()
	}

	for _, w := range resp.Result.All {
		item := domain.NewRunItem(*w)
		item.Note = failed[w.ID]
		run.Add(item)
	}
	for _, e := range resp.Epics {
		if !e.Found {
			continue
		}
		item := domain.NewSpanItem(domain.RunItemEpic, e.ID, e.Title, e.Span)
		item.Note = failed[e.ID]
		run.Add(item)
	}
	for _, p := range resp.Parents {
		item := domain.NewSpanItem(domain.RunItemParent, p.ID, p.Title, p.Span)
		item.Note = failed[p.ID]
		run.Add(item)
	}
	return run
}
