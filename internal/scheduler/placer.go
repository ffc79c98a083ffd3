package scheduler

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// PlaceFixed dates a Done or Active item relative to the reference day.
// Fixed items are never rejected; they occupy capacity that New items must
// respect.
//
// Done: target is DoneOffsetDays before ref, start is Duration before target.
// Active: the item is assumed halfway done. Start is floor(Duration/2) before
// ref and the remaining ceil(Duration/2) days, blackout-extended, run from
// ref. The target is clipped to the category deadline but never before start.
func PlaceFixed(item *domain.WorkItem, ref time.Time, cal Calendar, c domain.Constraints) {
	ref = domain.Day(ref)

	switch item.State {
	case domain.StateDone:
		target := cal.AddDays(ref, -c.DoneOffsetDays)
		start := cal.AddDays(target, -item.Duration)
		item.Place(start, target, item.Duration, false)

	case domain.StateActive:
		start := cal.AddDays(ref, -(item.Duration / 2))
		remaining := item.Duration - item.Duration/2
		adjusted, impacted := cal.ExtendForBlackout(start, remaining)
		target := cal.AddDays(ref, adjusted)
		if deadline := c.Deadline(item.Category); deadline != nil && target.After(*deadline) {
			target = *deadline
			if target.Before(start) {
				target = start
			}
		}
		item.Place(start, target, adjusted, impacted)
	}
}
