package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/alexanderramin/cadence/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// planBacklog is a small tracker: three schedulable items, one sub-group
// child under a synthetic parent feature, and the three category epics.
func planBacklog() *tracker.Memory {
	item := func(id, t string, opts ...testutil.DetailsOption) tracker.ItemDetails {
		d := testutil.NewTrackerItem(title(t), testTag, opts...)
		d.ID = id
		return d
	}
	return tracker.NewMemory(
		item("1", "Activity Log ingestion"),
		item("2", "search UI filters", testutil.WithTrackerType(domain.TrackerTypeBacklogItem)),
		item("3", "Query cache", testutil.WithTrackerState("Active")),
		item("4", "Generate LM - Search"),
		item("5", "LM tokenizer", testutil.WithTags("LM"), testutil.WithParent("4")),
		item("7", "Activity Log epic", testutil.WithTrackerType(domain.TrackerTypeEpic)),
		item("8", "/search platform", testutil.WithTrackerType(domain.TrackerTypeEpic)),
		item("9", "/query service", testutil.WithTrackerType(domain.TrackerTypeEpic)),
	)
}

func changeByID(t *testing.T, resp *app.PlanResponse, id string) app.ItemChange {
	t.Helper()
	for _, c := range resp.Changes {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("no change for #%s", id)
	return app.ItemChange{}
}

func epicByRole(t *testing.T, resp *app.PlanResponse, role app.EpicRole) app.EpicSpan {
	t.Helper()
	for _, e := range resp.Epics {
		if e.Role == role {
			return e
		}
	}
	t.Fatalf("no epic for role %s", role)
	return app.EpicSpan{}
}

func TestPlan_DryRunSchedulesWithoutWriting(t *testing.T) {
	mem := planBacklog()
	deps, _ := testDeps(t, mem)
	svc := NewPlanService(deps, testSettings())

	resp, err := svc.Plan(context.Background(), app.NewPlanRequest())
	require.NoError(t, err)

	require.Len(t, resp.Changes, 4, "parents and epics are not scheduled")
	for _, c := range resp.Changes {
		assert.NotNil(t, c.Start, "#%s start", c.ID)
		assert.NotNil(t, c.Target, "#%s target", c.ID)
		assert.False(t, c.Applied)
	}
	assert.Empty(t, mem.Updates())

	al := changeByID(t, resp, "1")
	assert.Equal(t, domain.CategoryActivityLog, al.Category)
	assert.Equal(t, "2025-06-02", domain.FormatDay(al.Start))
	assert.Equal(t, "2025-06-30", domain.FormatDay(al.Target))

	assert.Equal(t, domain.CategorySearch, changeByID(t, resp, "2").Category)
	assert.Equal(t, domain.StateActive, changeByID(t, resp, "3").State)

	child := changeByID(t, resp, "5")
	assert.True(t, child.SubGroup)
	assert.Equal(t, domain.CategorySearch, child.Category, "categorized by its parent feature")
}

func TestPlan_EpicsChainSpans(t *testing.T) {
	deps, _ := testDeps(t, planBacklog())
	resp, err := NewPlanService(deps, testSettings()).Plan(context.Background(), app.NewPlanRequest())
	require.NoError(t, err)

	al := epicByRole(t, resp, app.EpicActivityLog)
	search := epicByRole(t, resp, app.EpicSearch)
	query := epicByRole(t, resp, app.EpicQuery)
	require.True(t, al.Found)
	require.True(t, search.Found)
	require.True(t, query.Found)
	assert.Equal(t, "7", al.ID)
	assert.Equal(t, "8", search.ID)
	assert.Equal(t, "9", query.ID)

	// Activity log epic covers activity log and orphan items.
	active := changeByID(t, resp, "3")
	assert.Equal(t, domain.FormatDay(active.Start), domain.FormatDay(al.Span.Start))
	assert.Equal(t, "2025-06-30", domain.FormatDay(al.Span.Target))

	// Search epic includes the activity log span, so starts no later.
	assert.False(t, search.Span.Start.After(*al.Span.Start))

	for _, c := range resp.Changes {
		assert.False(t, c.Start.Before(*query.Span.Start))
		assert.False(t, c.Target.After(*query.Span.Target))
	}
}

func TestPlan_ParentFeatureRollup(t *testing.T) {
	deps, _ := testDeps(t, planBacklog())
	resp, err := NewPlanService(deps, testSettings()).Plan(context.Background(), app.NewPlanRequest())
	require.NoError(t, err)

	require.Len(t, resp.Parents, 1)
	parent := resp.Parents[0]
	child := changeByID(t, resp, "5")
	assert.Equal(t, "4", parent.ID)
	assert.Equal(t, 1, parent.Children)
	assert.Equal(t, domain.FormatDay(child.Start), domain.FormatDay(parent.Span.Start))
	assert.Equal(t, domain.FormatDay(child.Target), domain.FormatDay(parent.Span.Target))
}

func TestPlan_ApplyWritesItemsEpicsAndParents(t *testing.T) {
	mem := planBacklog()
	deps, _ := testDeps(t, mem)
	req := app.NewPlanRequest()
	req.Apply = true

	resp, err := NewPlanService(deps, testSettings()).Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Empty(t, resp.Failures)
	assert.Len(t, mem.Updates(), 4+3+1)
	for _, c := range resp.Changes {
		assert.True(t, c.Applied)
		stored := mem.Item(c.ID)
		require.NotNil(t, stored)
		assert.Equal(t, domain.FormatDay(c.Target), domain.FormatDay(stored.TargetDate))
	}
	assert.Equal(t, "2025-06-30", domain.FormatDay(mem.Item("7").TargetDate))
}

func TestPlan_UpdateFailureIsCollected(t *testing.T) {
	mem := planBacklog()
	boom := errors.New("boom")
	mem.Fail = func(op, id string) error {
		if op == "update" && id == "2" {
			return boom
		}
		return nil
	}
	deps, _ := testDeps(t, mem)
	req := app.NewPlanRequest()
	req.Apply = true

	resp, err := NewPlanService(deps, testSettings()).Plan(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "2", resp.Failures[0].ID)
	assert.ErrorIs(t, resp.Failures[0].Err, boom)
	assert.False(t, changeByID(t, resp, "2").Applied)
	assert.True(t, changeByID(t, resp, "1").Applied)
}

func TestPlan_RecordsRun(t *testing.T) {
	deps, database := testDeps(t, planBacklog())
	resp, err := NewPlanService(deps, testSettings()).Plan(context.Background(), app.NewPlanRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.RunID)

	run, err := repository.NewSQLiteRunRepo(database).GetByID(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunPlan, run.Kind)
	assert.False(t, run.Applied)
	assert.Equal(t, "2025-06-02", domain.FormatDay(run.Reference))
	assert.Equal(t, 4, run.ItemCount)
	assert.Len(t, run.Items, 4+3+1)
}

func TestPlan_WithoutRecordOrStore(t *testing.T) {
	deps, _ := testDeps(t, planBacklog())
	deps.UoW = nil

	resp, err := NewPlanService(deps, testSettings()).Plan(context.Background(), app.NewPlanRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.RunID)
	assert.Empty(t, resp.Warnings)
}

func TestPlan_MissingEpicsAreReportedNotFound(t *testing.T) {
	mem := tracker.NewMemory(testutil.NewTrackerItem(title("Query cache"), testTag))
	deps, _ := testDeps(t, mem)

	resp, err := NewPlanService(deps, testSettings()).Plan(context.Background(), app.NewPlanRequest())
	require.NoError(t, err)
	require.Len(t, resp.Epics, 3)
	for _, e := range resp.Epics {
		assert.False(t, e.Found)
	}
	assert.Empty(t, resp.Parents)
}

func TestPlan_UntaggedParentIsFetched(t *testing.T) {
	parent := testutil.NewTrackerItem(title("Generate LM - Activity Log"), "other")
	parent.ID = "40"
	child := testutil.NewTrackerItem(title("LM search index"), testTag, testutil.WithParent("40"))
	child.ID = "41"
	deps, _ := testDeps(t, tracker.NewMemory(parent, child))

	resp, err := NewPlanService(deps, testSettings()).Plan(context.Background(), app.NewPlanRequest())
	require.NoError(t, err)

	c := changeByID(t, resp, "41")
	assert.True(t, c.SubGroup, "parent is a sub-group parent")
	assert.Equal(t, domain.CategoryActivityLog, c.Category)
}

func TestPlan_NoTaggedItems(t *testing.T) {
	deps, _ := testDeps(t, tracker.NewMemory())

	_, err := NewPlanService(deps, testSettings()).Plan(context.Background(), app.NewPlanRequest())
	var uce *app.UseCaseError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, app.ErrNoItems, uce.Code)
}

func TestPlan_QueryFailure(t *testing.T) {
	mem := tracker.NewMemory()
	mem.Fail = func(op, id string) error { return tracker.ErrUnavailable }
	deps, _ := testDeps(t, mem)
	obs := &recordingObserver{}

	_, err := NewPlanService(deps, testSettings(), obs).Plan(context.Background(), app.NewPlanRequest())
	var uce *app.UseCaseError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, app.ErrTracker, uce.Code)
	assert.ErrorIs(t, err, tracker.ErrUnavailable)

	ev := obs.last()
	assert.Equal(t, "plan", ev.Name)
	assert.False(t, ev.Success)
}

func TestPlan_ObserverSeesSummary(t *testing.T) {
	deps, _ := testDeps(t, planBacklog())
	obs := &recordingObserver{}

	_, err := NewPlanService(deps, testSettings(), obs).Plan(context.Background(), app.NewPlanRequest())
	require.NoError(t, err)

	ev := obs.last()
	assert.True(t, ev.Success)
	assert.Equal(t, 4, ev.Fields["items"])
	assert.Equal(t, 3, ev.Fields["epics"])
	assert.Equal(t, false, ev.Fields["apply"])
}

func TestPlan_RequestNowOverridesReference(t *testing.T) {
	deps, _ := testDeps(t, tracker.NewMemory(testutil.NewTrackerItem(title("Query cache"), testTag)))
	now := domain.MustParseDay("2025-07-01")
	req := app.NewPlanRequest()
	req.Now = &now

	resp, err := NewPlanService(deps, testSettings()).Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-01", resp.Reference.Format(domain.DateLayout))
	assert.Equal(t, "2025-07-01", domain.FormatDay(resp.Changes[0].Start))
}
