package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Options configures one scheduling run.
type Options struct {
	Reference   time.Time
	Constraints domain.Constraints
	Blackout    domain.BlackoutWindow
	// Estimator supplies durations for items that arrive without one.
	// Nil means the fixed per-type defaults.
	Estimator Estimator
}

// Result is the outcome of ScheduleAll. All lists fixed-state items first,
// then New items in placement order.
type Result struct {
	All        []*domain.WorkItem
	ByCategory map[domain.Category][]*domain.WorkItem
	Placements []Placement
}

// Category returns the scheduled items of one category.
func (r *Result) Category(c domain.Category) []*domain.WorkItem {
	return r.ByCategory[c]
}

// BlackoutImpacted counts items whose interval was extended.
func (r *Result) BlackoutImpacted() int {
	n := 0
	for _, it := range r.All {
		if it.BlackoutImpact {
			n++
		}
	}
	return n
}

// ScheduleAll classifies and dates every item. items are categorized by their
// signals; subGroupItems join the capacity-limited sub-group and are
// categorized by their parent feature. Inputs are copied, never modified.
//
// Done and Active items are placed first without capacity checks, then New
// items are placed greedily in canonical order against everything already
// scheduled.
func ScheduleAll(items, subGroupItems []domain.WorkItem, opts Options) (*Result, error) {
	c := opts.Constraints
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid constraints: %w", err)
	}
	est := opts.Estimator
	if est == nil {
		est = NewFixedEstimator(nil)
	}
	ref := domain.Day(opts.Reference)
	cal := NewCalendar(opts.Blackout)

	run := make([]*domain.WorkItem, 0, len(items)+len(subGroupItems))
	for _, it := range items {
		w := it
		w.SubGroup = false
		w.Category = Categorize(w.Signals)
		run = append(run, &w)
	}
	for _, it := range subGroupItems {
		w := it
		w.SubGroup = true
		w.Category = CategorizeSubGroup(w.ParentTitle, w.Signals)
		run = append(run, &w)
	}

	var fixed, fresh []*domain.WorkItem
	for _, w := range run {
		w.State = ClassifyProgress(w.ProgressLabel)
		if w.Duration <= 0 {
			w.Duration = est.Duration(*w)
		}
		w.StartDate, w.TargetDate = nil, nil
		w.AdjustedDuration, w.BlackoutImpact = 0, false

		if w.State.IsFixed() {
			PlaceFixed(w, ref, cal, c)
			fixed = append(fixed, w)
			continue
		}
		fresh = append(fresh, w)
	}

	CanonicalSort(fresh)
	all, placements := PlaceNew(fresh, fixed, ref, cal, c)

	if err := ValidateComplete(all); err != nil {
		return nil, err
	}

	byCategory := make(map[domain.Category][]*domain.WorkItem, len(domain.Categories))
	for _, w := range all {
		byCategory[w.Category] = append(byCategory[w.Category], w)
	}

	return &Result{All: all, ByCategory: byCategory, Placements: placements}, nil
}
