package domain

import "time"

// Signals are the boolean category flags carried on an item's source row.
type Signals struct {
	ActivityLog bool
	SearchUI    bool
	Shim        bool
}

// WorkItem is a single backlog item owned by one scheduling run.
type WorkItem struct {
	ID          string
	Title       string
	Type        ItemType
	Signals     Signals
	ParentTitle string

	// Raw free-text progress; State is derived from it once.
	ProgressLabel string

	Category Category
	SubGroup bool
	State    ProgressState

	// Duration is the base estimate in days. AdjustedDuration is the number
	// of days actually placed after blackout extension.
	Duration         int
	AdjustedDuration int

	StartDate      *time.Time
	TargetDate     *time.Time
	BlackoutImpact bool
}

// Scheduled reports whether both dates are set.
func (w *WorkItem) Scheduled() bool {
	return w.StartDate != nil && w.TargetDate != nil
}

// ActiveOn reports whether day falls in [StartDate, TargetDate).
func (w *WorkItem) ActiveOn(day time.Time) bool {
	if !w.Scheduled() {
		return false
	}
	return !day.Before(*w.StartDate) && day.Before(*w.TargetDate)
}

// Place sets the item's dates. The dates are normalised to calendar days.
func (w *WorkItem) Place(start, target time.Time, adjusted int, blackout bool) {
	s, t := Day(start), Day(target)
	w.StartDate = &s
	w.TargetDate = &t
	w.AdjustedDuration = adjusted
	w.BlackoutImpact = blackout
}

// SpanDays returns the number of days between start and target, or 0 when unscheduled.
func (w *WorkItem) SpanDays() int {
	if !w.Scheduled() {
		return 0
	}
	return DaysBetween(*w.StartDate, *w.TargetDate)
}

func (w WorkItem) Dates() DateSpan {
	return DateSpan{Start: w.StartDate, Target: w.TargetDate}
}
