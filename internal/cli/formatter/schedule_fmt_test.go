package formatter

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/stretchr/testify/assert"
)

func day(s string) *time.Time {
	d := domain.MustParseDay(s)
	return &d
}

func scheduledItem(id, title string, cat domain.Category, state domain.ProgressState, start, target string) *domain.WorkItem {
	return &domain.WorkItem{
		ID: id, Title: title, Category: cat, State: state,
		Duration: 10, AdjustedDuration: 10,
		StartDate: day(start), TargetDate: day(target),
	}
}

func TestFormatPlan_ShowsChangesEpicsAndProblems(t *testing.T) {
	al := scheduledItem("1", "Activity Log export", domain.CategoryActivityLog, domain.StateNew, "2025-06-02", "2025-06-12")
	resp := &contract.PlanResponse{
		RunID:     "run-1",
		Reference: domain.MustParseDay("2025-06-02"),
		Blackout:  domain.DefaultBlackout(),
		Result:    &scheduler.Result{All: []*domain.WorkItem{al}},
		Changes: []contract.ItemChange{
			{ID: "1", Title: al.Title, Category: al.Category, State: al.State, Start: al.StartDate, Target: al.TargetDate},
			{ID: "2", Title: "Unchanged", Start: day("2025-06-02"), Target: day("2025-06-05"), PrevStart: day("2025-06-02"), PrevTarget: day("2025-06-05")},
		},
		Epics: []contract.EpicSpan{
			{Role: contract.EpicActivityLog, ID: "50", Title: "Activity Log epic", Span: al.Dates(), Found: true},
			{Role: contract.EpicQuery},
		},
		Skipped:  []contract.SkippedItem{{ID: "9", Title: "Broken", Reason: "no effort"}},
		Failures: []contract.ItemFailure{{ID: "3", Op: "update", Err: errors.New("boom")}},
		Warnings: []string{"history not saved"},
	}

	out := FormatPlan(resp)
	assert.Contains(t, out, "DRY RUN")
	assert.Contains(t, out, "Activity Log export")
	assert.Contains(t, out, "1 item(s) already up to date.")
	assert.Contains(t, out, "Activity Log epic")
	assert.Contains(t, out, "query epic not found")
	assert.Contains(t, out, "no effort")
	assert.Contains(t, out, "update #3: boom")
	assert.Contains(t, out, "history not saved")
}

func TestFormatSchedule_GroupsByCategory(t *testing.T) {
	items := []*domain.WorkItem{
		scheduledItem("1", "Timeline view", domain.CategoryActivityLog, domain.StateActive, "2025-05-20", "2025-06-10"),
		scheduledItem("2", "Search results page", domain.CategorySearch, domain.StateNew, "2025-06-02", "2025-06-30"),
	}
	items[1].AdjustedDuration = 24
	items[1].BlackoutImpact = true
	resp := &contract.ScheduleResponse{
		Reference: domain.MustParseDay("2025-06-02"),
		Result: &scheduler.Result{
			All: items,
			ByCategory: map[domain.Category][]*domain.WorkItem{
				domain.CategoryActivityLog: items[:1],
				domain.CategorySearch:      items[1:],
			},
		},
		Parents: []scheduler.ParentSpan{{Title: "Generate LM", Children: 2, Span: items[0].Dates()}},
	}

	out := FormatSchedule(resp)
	assert.Contains(t, out, "ACTIVITY LOG")
	assert.Contains(t, out, "SEARCH")
	assert.NotContains(t, out, "ORPHAN")
	assert.Contains(t, out, "Search results page")
	assert.Contains(t, out, "(24)")
	assert.Contains(t, out, "⛔")
	assert.Contains(t, out, "Generate LM")
}

func TestFormatSync_ListsUpdatesAndSkips(t *testing.T) {
	resp := &contract.SyncResponse{
		Applied: true,
		Updated: []contract.DateUpdate{{ID: "4", Title: "Export", Finish: domain.MustParseDay("2025-07-01"), Applied: true}},
		Skipped: []contract.SkippedItem{{ID: "5", Title: "Import", Reason: "no finish date"}},
	}

	out := FormatSync(resp)
	assert.Contains(t, out, "APPLIED")
	assert.Contains(t, out, "2025-07-01")
	assert.Contains(t, out, "#5 Import")
	assert.Contains(t, out, "no finish date")
}

func TestFormatCreate_DryRunHasNoIDs(t *testing.T) {
	resp := &contract.CreateResponse{
		Items: []contract.CreatedItem{
			{RowID: "r1", Title: "LM Export", Type: "Feature", State: "New", Tags: []string{"plan", "AL"}, ParentFeature: "Generate LM"},
		},
	}

	out := FormatCreate(resp)
	assert.Contains(t, out, "DRY RUN")
	assert.Contains(t, out, "LM Export")
	assert.Contains(t, out, "plan, AL")
	assert.Contains(t, out, "Generate LM")

	assert.Contains(t, FormatCreate(&contract.CreateResponse{}), "Nothing to create.")
}

func TestFormatHistoryAndRun(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	run := &domain.PlanRun{
		ID:        "0f8e3c1a-aaaa-bbbb-cccc-111122223333",
		Kind:      domain.RunSchedule,
		Reference: day("2025-06-02"),
		CreatedAt: now.Add(-2 * time.Hour),
	}
	run.Add(domain.NewRunItem(*scheduledItem("1", "Timeline view", domain.CategoryOrphan, domain.StateNew, "2025-06-02", "2025-06-12")))
	run.Add(domain.RunItem{Kind: domain.RunItemSkipped, Title: "row 3", Note: "missing effort"})

	list := FormatHistory([]*domain.PlanRun{run}, now)
	assert.Contains(t, list, "0f8e3c1a")
	assert.NotContains(t, list, "0f8e3c1a-aaaa")
	assert.Contains(t, list, "2h ago")

	detail := FormatRun(run)
	assert.Contains(t, detail, run.ID)
	assert.Contains(t, detail, "Timeline view")
	assert.Contains(t, detail, "missing effort")

	assert.Contains(t, FormatHistory(nil, now), "No runs recorded yet.")
}
