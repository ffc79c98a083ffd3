package scheduler

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Placement records where the capacity scheduler put one New item.
type Placement struct {
	ItemID string
	Cursor time.Time
	Start  time.Time
	// DelayDays is how far the start moved past the cursor.
	DelayDays int
}

// load is the set of already-scheduled items used for capacity counting.
type load struct {
	items []*domain.WorkItem
}

// activeOn counts items active on day, overall and within the sub-group.
func (l *load) activeOn(day time.Time) (total, sub int) {
	for _, it := range l.items {
		if it.ActiveOn(day) {
			total++
			if it.SubGroup {
				sub++
			}
		}
	}
	return total, sub
}

// admits reports whether an item occupying [start, end) keeps every day
// strictly below capacity before it is added. Active counts only rise on
// start days, so it is enough to check start and every later start inside
// the interval.
func (l *load) admits(start, end time.Time, subGroup bool, c domain.Constraints) bool {
	check := func(day time.Time) bool {
		total, sub := l.activeOn(day)
		if total >= c.GlobalCapacity {
			return false
		}
		return !subGroup || sub < c.SubGroupCapacity
	}

	if !check(start) {
		return false
	}
	for _, it := range l.items {
		if it.StartDate == nil {
			continue
		}
		s := *it.StartDate
		if s.After(start) && s.Before(end) && !check(s) {
			return false
		}
	}
	return true
}

// PlaceNew greedily places items, already in priority order, on the earliest
// day at or after the cursor that keeps both capacity limits. scheduled holds
// the fixed-state items already occupying capacity; the returned slice is
// scheduled plus every placed item, in placement order.
//
// The cursor starts at the first non-blackout day from ref. After each
// placement, once the active count on the chosen start day reaches the load
// threshold the cursor moves to the following day; below the threshold the
// next items may start on the same day.
func PlaceNew(items []*domain.WorkItem, scheduled []*domain.WorkItem, ref time.Time, cal Calendar, c domain.Constraints) ([]*domain.WorkItem, []Placement) {
	l := &load{items: make([]*domain.WorkItem, 0, len(scheduled)+len(items))}
	l.items = append(l.items, scheduled...)

	placements := make([]Placement, 0, len(items))
	cursor := cal.NextAvailableDay(ref)

	for _, item := range items {
		day := cursor
		var (
			end      time.Time
			adjusted int
			impacted bool
		)
		for {
			day = cal.NextAvailableDay(day)
			adjusted, impacted = cal.ExtendForBlackout(day, item.Duration)
			end = cal.AddDays(day, adjusted)
			if l.admits(day, end, item.SubGroup, c) {
				break
			}
			day = cal.AddDays(day, 1)
		}

		item.Place(day, end, adjusted, impacted)
		l.items = append(l.items, item)
		placements = append(placements, Placement{
			ItemID:    item.ID,
			Cursor:    cursor,
			Start:     day,
			DelayDays: domain.DaysBetween(cursor, day),
		})

		if total, _ := l.activeOn(day); total >= c.LoadThreshold {
			cursor = cal.AddDays(day, 1)
		}
	}

	return l.items, placements
}

// PeakLoad returns the highest active count on any day of [from, to), overall
// and for the sub-group.
func PeakLoad(items []*domain.WorkItem, from, to time.Time) (total, sub int) {
	l := &load{items: items}
	for day := domain.Day(from); day.Before(to); day = day.AddDate(0, 0, 1) {
		t, s := l.activeOn(day)
		total = max(total, t)
		sub = max(sub, s)
	}
	return total, sub
}
