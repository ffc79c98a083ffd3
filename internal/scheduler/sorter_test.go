package scheduler

import (
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
)

func makeItem(id string, cat domain.Category, subGroup bool, duration int) *domain.WorkItem {
	return &domain.WorkItem{
		ID:       id,
		Title:    "item " + id,
		Category: cat,
		SubGroup: subGroup,
		State:    domain.StateNew,
		Duration: duration,
	}
}

func ids(items []*domain.WorkItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestCanonicalSort_CategoryPriority(t *testing.T) {
	items := []*domain.WorkItem{
		makeItem("s", domain.CategorySearch, false, 5),
		makeItem("o", domain.CategoryOrphan, false, 5),
		makeItem("a", domain.CategoryActivityLog, false, 5),
	}

	CanonicalSort(items)

	assert.Equal(t, []string{"a", "o", "s"}, ids(items), "activity log, then orphan, then search")
}

func TestCanonicalSort_SubGroupFirstWithinCategory(t *testing.T) {
	items := []*domain.WorkItem{
		makeItem("plain", domain.CategorySearch, false, 3),
		makeItem("lm", domain.CategorySearch, true, 30),
		makeItem("al", domain.CategoryActivityLog, false, 40),
	}

	CanonicalSort(items)

	assert.Equal(t, []string{"al", "lm", "plain"}, ids(items))
}

func TestCanonicalSort_ShorterFirst(t *testing.T) {
	items := []*domain.WorkItem{
		makeItem("long", domain.CategoryOrphan, false, 30),
		makeItem("short", domain.CategoryOrphan, false, 7),
		makeItem("mid", domain.CategoryOrphan, false, 14),
	}

	CanonicalSort(items)

	assert.Equal(t, []string{"short", "mid", "long"}, ids(items))
}

func TestCanonicalSort_IDTiebreak(t *testing.T) {
	items := []*domain.WorkItem{
		makeItem("b", domain.CategoryOrphan, false, 7),
		makeItem("c", domain.CategoryOrphan, false, 7),
		makeItem("a", domain.CategoryOrphan, false, 7),
	}

	CanonicalSort(items)

	assert.Equal(t, []string{"a", "b", "c"}, ids(items))
}
