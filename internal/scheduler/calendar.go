package scheduler

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Calendar does day arithmetic around a single blackout window.
type Calendar struct {
	Blackout domain.BlackoutWindow
}

func NewCalendar(b domain.BlackoutWindow) Calendar {
	return Calendar{Blackout: b}
}

// AddDays returns the day n days after date. The input is not modified.
func (c Calendar) AddDays(date time.Time, n int) time.Time {
	return domain.Day(date).AddDate(0, 0, n)
}

// OverlapsBlackout reports whether [start, end) intersects the inclusive
// blackout window.
func (c Calendar) OverlapsBlackout(start, end time.Time) bool {
	if c.Blackout.IsZero() {
		return false
	}
	start, end = domain.Day(start), domain.Day(end)
	if !start.Before(end) {
		return false
	}
	return !start.After(domain.Day(c.Blackout.End)) && end.After(domain.Day(c.Blackout.Start))
}

// NextAvailableDay returns the day after the blackout when date falls inside
// it, otherwise date itself.
func (c Calendar) NextAvailableDay(date time.Time) time.Time {
	if !c.Blackout.IsZero() && c.Blackout.Contains(date) {
		return c.AddDays(c.Blackout.End, 1)
	}
	return domain.Day(date)
}

// ExtendForBlackout returns the wall-clock duration of work starting on start.
// Work that overlaps the blackout takes ExtensionDays longer; it is not
// rerouted around the window.
func (c Calendar) ExtendForBlackout(start time.Time, duration int) (adjusted int, impacted bool) {
	if c.OverlapsBlackout(start, c.AddDays(start, duration)) {
		return duration + c.Blackout.ExtensionDays, true
	}
	return duration, false
}
