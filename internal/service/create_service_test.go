package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createBacklog = `items:
  - id: lm
    feature: Generate LM - Search
    effort: L
  - id: tok
    feature: LM tokenizer
    effort: S
    progress: in progress
    parent_feature: Generate LM - Search
  - id: al
    feature: Activity Log export
    effort: M
    activity_log: "+"
    search_ui: "+"
  - feature: ""
    effort: S
  - feature: No effort
`

func writeBacklog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func createdByRow(t *testing.T, resp *app.CreateResponse, row string) app.CreatedItem {
	t.Helper()
	for _, it := range resp.Items {
		if it.RowID == row {
			return it
		}
	}
	t.Fatalf("no item for row %s", row)
	return app.CreatedItem{}
}

func TestCreate_DryRunDescribesItems(t *testing.T) {
	mem := tracker.NewMemory()
	deps, _ := testDeps(t, mem)
	svc := NewCreateService(deps, testSettings())

	resp, err := svc.Create(context.Background(), app.NewCreateRequest(writeBacklog(t, "b.yaml", createBacklog)))
	require.NoError(t, err)

	require.Len(t, resp.Items, 3)
	require.Len(t, resp.Skipped, 2)
	assert.Equal(t, "missing feature", resp.Skipped[0].Reason)
	assert.Equal(t, "missing effort", resp.Skipped[1].Reason)

	tok := createdByRow(t, resp, "tok")
	assert.Equal(t, "[Draft->LAQS] LM tokenizer", tok.Title)
	assert.Equal(t, domain.TrackerTypeBacklogItem, tok.Type)
	assert.Equal(t, "Active", tok.State)
	assert.Equal(t, []string{testTag, "LM"}, tok.Tags)
	assert.Empty(t, tok.TrackerID)

	al := createdByRow(t, resp, "al")
	assert.Equal(t, domain.TrackerTypeFeature, al.Type)
	assert.Equal(t, "New", al.State)
	assert.Equal(t, []string{testTag, "UI /search", "AL"}, al.Tags)

	ids, err := mem.QueryByTag(context.Background(), testTag)
	require.NoError(t, err)
	assert.Empty(t, ids, "dry run creates nothing")
}

func TestCreate_ApplyCreatesAndLinksParents(t *testing.T) {
	mem := tracker.NewMemory()
	deps, database := testDeps(t, mem)
	req := app.NewCreateRequest(writeBacklog(t, "b.yaml", createBacklog))
	req.Apply = true

	resp, err := NewCreateService(deps, testSettings()).Create(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Failures)

	parent := createdByRow(t, resp, "lm")
	child := createdByRow(t, resp, "tok")
	require.NotEmpty(t, parent.TrackerID)
	require.NotEmpty(t, child.TrackerID)
	assert.Equal(t, parent.TrackerID, child.ParentID)

	stored := mem.Item(child.TrackerID)
	require.NotNil(t, stored)
	assert.Equal(t, parent.TrackerID, stored.ParentID)
	assert.Equal(t, "[Draft->LAQS] LM tokenizer", stored.Title)

	run, err := repository.NewSQLiteRunRepo(database).GetByID(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunCreate, run.Kind)
	assert.Equal(t, 3, run.ItemCount)
	assert.Equal(t, 2, run.SkippedCount)
}

func TestCreate_FailureDoesNotStopOtherRows(t *testing.T) {
	mem := tracker.NewMemory()
	calls := 0
	mem.Fail = func(op, id string) error {
		if op != "create" {
			return nil
		}
		calls++
		if calls == 1 {
			return errors.New("quota")
		}
		return nil
	}
	deps, _ := testDeps(t, mem)
	req := app.NewCreateRequest(writeBacklog(t, "b.yaml", createBacklog))
	req.Apply = true

	resp, err := NewCreateService(deps, testSettings()).Create(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "lm", resp.Failures[0].ID)
	assert.Empty(t, createdByRow(t, resp, "tok").ParentID, "parent was never created")
	assert.NotEmpty(t, createdByRow(t, resp, "al").TrackerID)
}

func TestCreate_InvalidBacklog(t *testing.T) {
	deps, _ := testDeps(t, tracker.NewMemory())
	path := writeBacklog(t, "b.yaml", "items:\n  - feature: x\n    effort: XXL\n")

	_, err := NewCreateService(deps, testSettings()).Create(context.Background(), app.NewCreateRequest(path))
	var uce *app.UseCaseError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, app.ErrInvalidInput, uce.Code)
	assert.Contains(t, err.Error(), "effort")
}

func TestCreate_MissingFile(t *testing.T) {
	deps, _ := testDeps(t, tracker.NewMemory())

	_, err := NewCreateService(deps, testSettings()).Create(context.Background(), app.NewCreateRequest("/nonexistent/b.yaml"))
	var uce *app.UseCaseError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, app.ErrInvalidInput, uce.Code)
}
