package domain

import (
	"fmt"
	"time"
)

// RunKind is the operation that produced a persisted run.
type RunKind string

const (
	RunPlan     RunKind = "plan"
	RunSchedule RunKind = "schedule"
	RunSync     RunKind = "sync"
	RunCreate   RunKind = "create"
)

func (k RunKind) Valid() bool {
	switch k {
	case RunPlan, RunSchedule, RunSync, RunCreate:
		return true
	}
	return false
}

// RunItemKind distinguishes scheduled items from aggregate rows in a run.
type RunItemKind string

const (
	RunItemWork    RunItemKind = "item"
	RunItemEpic    RunItemKind = "epic"
	RunItemParent  RunItemKind = "parent"
	RunItemSkipped RunItemKind = "skipped"
)

// PlanRun is one audit record in the run history. It is never read back
// by the scheduler.
type PlanRun struct {
	ID               string
	Kind             RunKind
	Reference        *time.Time
	Applied          bool
	Blackout         string
	ItemCount        int
	BlackoutImpacted int
	SkippedCount     int
	Seed             uint64
	CreatedAt        time.Time

	Items []RunItem
}

// RunItem is one row of a run: a placed item, an epic or parent span, or a
// skipped entry with a note.
type RunItem struct {
	Seq            int
	ItemID         string
	Title          string
	Kind           RunItemKind
	Category       Category
	State          ProgressState
	SubGroup       bool
	Duration       int
	Adjusted       int
	StartDate      *time.Time
	TargetDate     *time.Time
	BlackoutImpact bool
	Note           string
}

// NewRunItem snapshots a scheduled work item.
func NewRunItem(w WorkItem) RunItem {
	return RunItem{
		ItemID:         w.ID,
		Title:          w.Title,
		Kind:           RunItemWork,
		Category:       w.Category,
		State:          w.State,
		SubGroup:       w.SubGroup,
		Duration:       w.Duration,
		Adjusted:       w.AdjustedDuration,
		StartDate:      w.StartDate,
		TargetDate:     w.TargetDate,
		BlackoutImpact: w.BlackoutImpact,
	}
}

// NewSpanItem records an epic or parent feature span.
func NewSpanItem(kind RunItemKind, id, title string, span DateSpan) RunItem {
	return RunItem{ItemID: id, Title: title, Kind: kind, StartDate: span.Start, TargetDate: span.Target}
}

// Add appends an item, numbering it and updating the run counters.
func (r *PlanRun) Add(item RunItem) {
	item.Seq = len(r.Items)
	r.Items = append(r.Items, item)
	switch item.Kind {
	case RunItemWork:
		r.ItemCount++
		if item.BlackoutImpact {
			r.BlackoutImpacted++
		}
	case RunItemSkipped:
		r.SkippedCount++
	}
}

// Validate checks the fields the history store requires.
func (r *PlanRun) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("invalid run kind %q", r.Kind)
	}
	return nil
}
