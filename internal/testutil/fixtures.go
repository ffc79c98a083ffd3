package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/tracker"
	"github.com/google/uuid"
)

var testItemCounter atomic.Int64

func nextItemID() string {
	return fmt.Sprintf("%d", 5000+testItemCounter.Add(1))
}

// WorkItem options
type WorkItemOption func(*domain.WorkItem)

func WithCategory(c domain.Category) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Category = c
	}
}

func WithState(s domain.ProgressState) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.State = s
	}
}

func WithDuration(days int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Duration = days
	}
}

func WithSubGroup(parent string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.SubGroup = true
		w.ParentTitle = parent
	}
}

func WithItemType(t domain.ItemType) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Type = t
	}
}

func WithDates(start, target time.Time) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Place(start, target, domain.DaysBetween(start, target), false)
	}
}

// NewTestWorkItem builds a New, orphan, large item with a 10 day duration.
func NewTestWorkItem(title string, opts ...WorkItemOption) *domain.WorkItem {
	w := &domain.WorkItem{
		ID:       nextItemID(),
		Title:    title,
		Type:     domain.ItemLarge,
		Category: domain.CategoryOrphan,
		State:    domain.StateNew,
		Duration: 10,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Tracker item options
type DetailsOption func(*tracker.ItemDetails)

func WithTrackerState(state string) DetailsOption {
	return func(d *tracker.ItemDetails) {
		d.State = state
	}
}

func WithTrackerType(typ string) DetailsOption {
	return func(d *tracker.ItemDetails) {
		d.Type = typ
	}
}

func WithTags(tags ...string) DetailsOption {
	return func(d *tracker.ItemDetails) {
		d.Tags = append(d.Tags, tags...)
	}
}

func WithFinishDate(day time.Time) DetailsOption {
	return func(d *tracker.ItemDetails) {
		d.FinishDate = &day
	}
}

func WithTrackerDates(start, target time.Time) DetailsOption {
	return func(d *tracker.ItemDetails) {
		d.StartDate = &start
		d.TargetDate = &target
	}
}

func WithParent(id string) DetailsOption {
	return func(d *tracker.ItemDetails) {
		d.ParentID = id
	}
}

// NewTrackerItem builds a New feature carrying the given planning tag. The
// ID is left empty so the memory tracker assigns one.
func NewTrackerItem(title, tag string, opts ...DetailsOption) tracker.ItemDetails {
	d := tracker.ItemDetails{
		Type:  domain.TrackerTypeFeature,
		Title: title,
		State: "New",
		Tags:  []string{tag},
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewTestRun builds an empty plan run.
func NewTestRun(kind domain.RunKind, createdAt time.Time) *domain.PlanRun {
	ref := domain.Day(createdAt)
	return &domain.PlanRun{
		ID:        uuid.New().String(),
		Kind:      kind,
		Reference: &ref,
		CreatedAt: createdAt.UTC(),
	}
}
