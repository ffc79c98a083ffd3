package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/alexanderramin/cadence/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syncBacklog() *tracker.Memory {
	finished := testutil.NewTrackerItem(title("Finished"), testTag,
		testutil.WithFinishDate(domain.MustParseDay("2025-05-20")),
		testutil.WithTrackerDates(domain.MustParseDay("2025-04-01"), domain.MustParseDay("2025-05-01")))
	finished.ID = "1"
	open := testutil.NewTrackerItem(title("Still open"), testTag)
	open.ID = "2"
	return tracker.NewMemory(finished, open)
}

func TestSyncTargets_DryRun(t *testing.T) {
	mem := syncBacklog()
	deps, _ := testDeps(t, mem)

	resp, err := NewSyncService(deps, testSettings()).SyncTargets(context.Background(), app.NewSyncRequest())
	require.NoError(t, err)

	require.Len(t, resp.Updated, 1)
	upd := resp.Updated[0]
	assert.Equal(t, "1", upd.ID)
	assert.Equal(t, "2025-05-20", upd.Finish.Format(domain.DateLayout))
	assert.Equal(t, "2025-05-01", domain.FormatDay(upd.PrevTarget))
	assert.False(t, upd.Applied)

	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "2", resp.Skipped[0].ID)
	assert.Equal(t, "no finish date", resp.Skipped[0].Reason)
	assert.Empty(t, mem.Updates())
}

func TestSyncTargets_ApplySetsTargetOnly(t *testing.T) {
	mem := syncBacklog()
	deps, database := testDeps(t, mem)
	req := app.NewSyncRequest()
	req.Apply = true

	resp, err := NewSyncService(deps, testSettings()).SyncTargets(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Updated[0].Applied)

	updates := mem.Updates()
	require.Len(t, updates, 1)
	assert.Nil(t, updates[0].Fields.StartDate)
	assert.Equal(t, "2025-05-20", domain.FormatDay(mem.Item("1").TargetDate))
	assert.Equal(t, "2025-04-01", domain.FormatDay(mem.Item("1").StartDate))

	run, err := repository.NewSQLiteRunRepo(database).GetByID(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunSync, run.Kind)
	assert.True(t, run.Applied)
	assert.Equal(t, 1, run.ItemCount)
	assert.Equal(t, 1, run.SkippedCount)
}

func TestSyncTargets_DetailErrorIsSkipped(t *testing.T) {
	mem := syncBacklog()
	mem.Fail = func(op, id string) error {
		if op == "get" && id == "1" {
			return tracker.ErrUnavailable
		}
		return nil
	}
	deps, _ := testDeps(t, mem)

	resp, err := NewSyncService(deps, testSettings()).SyncTargets(context.Background(), app.NewSyncRequest())
	require.NoError(t, err)

	assert.Empty(t, resp.Updated)
	require.Len(t, resp.Skipped, 2)
	assert.Equal(t, "Error retrieving details", resp.Skipped[0].Title)
	assert.Contains(t, resp.Skipped[0].Reason, "unavailable")
}

func TestSyncTargets_NoItems(t *testing.T) {
	deps, _ := testDeps(t, tracker.NewMemory())

	_, err := NewSyncService(deps, testSettings()).SyncTargets(context.Background(), app.NewSyncRequest())
	var uce *app.UseCaseError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, app.ErrNoItems, uce.Code)
}
