package report

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	genAt = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	d1    = domain.MustParseDay("2025-06-02")
	d2    = domain.MustParseDay("2025-06-30")
)

func samplePlan() *contract.PlanResponse {
	al := testutil.NewTestWorkItem("Activity Log export",
		testutil.WithCategory(domain.CategoryActivityLog), testutil.WithDates(d1, d2))
	al.ID = "11"
	al.BlackoutImpact = true
	done := testutil.NewTestWorkItem("Old | piped",
		testutil.WithState(domain.StateDone), testutil.WithItemType(domain.ItemSmall), testutil.WithDates(d1, d2))
	done.ID = "12"
	sub := testutil.NewTestWorkItem("Tokenizer",
		testutil.WithCategory(domain.CategorySearch), testutil.WithSubGroup("Generate LM - Search"), testutil.WithDates(d1, d2))
	sub.ID = "13"

	return &contract.PlanResponse{
		GeneratedAt: genAt,
		Reference:   d1,
		Blackout:    domain.DefaultBlackout(),
		Result:      &scheduler.Result{All: []*domain.WorkItem{al, done, sub}},
		Epics: []contract.EpicSpan{
			{Role: contract.EpicActivityLog, ID: "7", Title: "Activity Log epic", Found: true, Span: domain.DateSpan{Start: &d1, Target: &d2}},
			{Role: contract.EpicQuery},
		},
		Parents: []contract.ParentUpdate{{ID: "4", Title: "Generate LM - Search", Children: 1, Span: domain.DateSpan{Start: &d1, Target: &d2}}},
		Skipped: []contract.SkippedItem{{ID: "row 5", Reason: "missing effort"}},
	}
}

func TestPlan_RendersSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Plan(&buf, FromPlan(samplePlan())))
	out := buf.String()

	assert.Contains(t, out, "# Schedule Plan")
	assert.Contains(t, out, "- **Reference date:** 2025-06-02")
	assert.Contains(t, out, "- **Blackout:** 2025-09-22..2025-10-14 (+23d)")
	assert.Contains(t, out, "- **Mode:** dry run")
	assert.Contains(t, out, "| Activity Log | 1 | ✅ 0 / 🚧 0 / ⭕ 1 |")
	assert.Contains(t, out, "| Orphan | 1 | ✅ 1 / 🚧 0 / ⭕ 0 |")
	assert.Contains(t, out, "| **Total** | **3** | **✅ 1 / 🚧 0 / ⭕ 2** |")
	assert.Contains(t, out, "| #7 Activity Log epic | 2025-06-02 | 2025-06-30 |")
	assert.Contains(t, out, "| #4 Generate LM - Search | 1 | 2025-06-02 | 2025-06-30 |")
	assert.Contains(t, out, "| ⭕ | #11 | Feature | Activity Log export | 2025-06-02 | 2025-06-30 | 28 ⛔ |")
	assert.Contains(t, out, `Old \| piped`)
	assert.Contains(t, out, "Tokenizer *(sub-group)*")
	assert.Contains(t, out, "- row 5: missing effort")
}

func TestPlan_CategoryOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Plan(&buf, FromPlan(samplePlan())))
	out := buf.String()

	al := bytes.Index(buf.Bytes(), []byte("### Activity Log"))
	orphan := bytes.Index(buf.Bytes(), []byte("### Orphan"))
	search := bytes.Index(buf.Bytes(), []byte("### Search"))
	require.True(t, al >= 0 && orphan >= 0 && search >= 0, out)
	assert.Less(t, al, orphan)
	assert.Less(t, orphan, search)
}

func TestFromSchedule(t *testing.T) {
	plan := samplePlan()
	resp := &contract.ScheduleResponse{
		Reference: d1,
		Result:    plan.Result,
		Parents:   []scheduler.ParentSpan{{Title: "Generate LM - Search", Children: 1, Span: domain.DateSpan{Start: &d1, Target: &d2}}},
	}

	r := FromSchedule(resp, genAt)
	assert.Len(t, r.Items, 3)
	require.Len(t, r.Parents, 1)
	assert.Empty(t, r.Parents[0].ID)
	assert.Empty(t, r.Epics)
}

func TestDateUpdates(t *testing.T) {
	prev := domain.MustParseDay("2025-05-01")
	resp := &contract.SyncResponse{
		Applied: true,
		Updated: []contract.DateUpdate{{ID: "1", Title: "Finished", Finish: d1, PrevTarget: &prev, Applied: true}},
		Skipped: []contract.SkippedItem{{ID: "2", Title: "Open", Reason: "no finish date"}},
		Failures: []contract.ItemFailure{{ID: "3", Op: "update", Err: errors.New("denied")}},
	}

	var buf bytes.Buffer
	require.NoError(t, DateUpdates(&buf, resp, genAt))
	out := buf.String()

	assert.Contains(t, out, "- Items updated: 1")
	assert.Contains(t, out, "- Items skipped: 1")
	assert.Contains(t, out, "- Updates failed: 1")
	assert.Contains(t, out, "### #1 \"Finished\"")
	assert.Contains(t, out, "- **Updated Target Date**: 2025-06-02")
	assert.Contains(t, out, "- **Previous Target Date**: 2025-05-01")
	assert.Contains(t, out, "- #2 \"Open\": no finish date")
	assert.Contains(t, out, "- update #3: denied")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.md")
	require.NoError(t, WriteFile(path, func(w io.Writer) error {
		return Plan(w, FromPlan(samplePlan()))
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Schedule Plan")
}
