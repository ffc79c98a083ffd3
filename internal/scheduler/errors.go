package scheduler

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
)

// UnscheduledItem identifies an item that left placement without dates.
type UnscheduledItem struct {
	ID    string
	Title string
}

// IncompleteScheduleError signals a defect in placement: at least one item
// has no start or target date. It is never recoverable.
type IncompleteScheduleError struct {
	Items []UnscheduledItem
}

func (e *IncompleteScheduleError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		parts = append(parts, fmt.Sprintf("#%s %q", it.ID, it.Title))
	}
	return fmt.Sprintf("schedule incomplete: %d item(s) missing dates: %s", len(e.Items), strings.Join(parts, ", "))
}

// ValidateComplete checks that every item has both dates and a target on or
// after its start.
func ValidateComplete(items []*domain.WorkItem) error {
	var bad []UnscheduledItem
	for _, it := range items {
		if !it.Scheduled() || it.TargetDate.Before(*it.StartDate) {
			bad = append(bad, UnscheduledItem{ID: it.ID, Title: it.Title})
		}
	}
	if len(bad) > 0 {
		return &IncompleteScheduleError{Items: bad}
	}
	return nil
}
