package domain

import (
	"fmt"
	"time"
)

// BlackoutWindow is a fixed unavailability period. Any item whose interval
// overlaps [Start, End] (inclusive) gets ExtensionDays added to its duration.
type BlackoutWindow struct {
	Start         time.Time
	End           time.Time
	ExtensionDays int
}

// Contains reports whether day falls inside the window, inclusive of both ends.
func (b BlackoutWindow) Contains(day time.Time) bool {
	day = Day(day)
	return !day.Before(Day(b.Start)) && !day.After(Day(b.End))
}

// IsZero reports whether no window is configured.
func (b BlackoutWindow) IsZero() bool {
	return b.Start.IsZero() && b.End.IsZero()
}

func (b BlackoutWindow) String() string {
	if b.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%s..%s (+%dd)", b.Start.Format(DateLayout), b.End.Format(DateLayout), b.ExtensionDays)
}

// Constraints bounds a scheduling run.
type Constraints struct {
	GlobalCapacity   int
	SubGroupCapacity int
	// LoadThreshold is the active count on a start day at which the
	// scheduling cursor moves to the next day.
	LoadThreshold  int
	DoneOffsetDays int
	Deadlines      map[Category]time.Time
}

// Deadline returns the category's soft deadline, or nil if none is set.
func (c Constraints) Deadline(cat Category) *time.Time {
	d, ok := c.Deadlines[cat]
	if !ok || d.IsZero() {
		return nil
	}
	d = Day(d)
	return &d
}

// Validate checks that the capacities allow the scheduler to terminate.
func (c Constraints) Validate() error {
	if c.GlobalCapacity < 1 {
		return fmt.Errorf("global capacity must be at least 1, got %d", c.GlobalCapacity)
	}
	if c.SubGroupCapacity < 1 {
		return fmt.Errorf("sub-group capacity must be at least 1, got %d", c.SubGroupCapacity)
	}
	if c.LoadThreshold < 1 {
		return fmt.Errorf("load threshold must be at least 1, got %d", c.LoadThreshold)
	}
	if c.DoneOffsetDays < 0 {
		return fmt.Errorf("done offset must not be negative, got %d", c.DoneOffsetDays)
	}
	return nil
}

// DefaultConstraints returns the constraints of the reference planning run.
func DefaultConstraints() Constraints {
	return Constraints{
		GlobalCapacity:   8,
		SubGroupCapacity: 3,
		LoadThreshold:    4,
		DoneOffsetDays:   7,
		Deadlines: map[Category]time.Time{
			CategoryActivityLog: MustParseDay("2025-09-30"),
			CategorySearch:      MustParseDay("2025-11-30"),
		},
	}
}

// DefaultBlackout returns the reference holiday window.
func DefaultBlackout() BlackoutWindow {
	return BlackoutWindow{
		Start:         MustParseDay("2025-09-22"),
		End:           MustParseDay("2025-10-14"),
		ExtensionDays: 23,
	}
}
