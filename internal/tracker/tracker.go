// Package tracker talks to the issue tracker that holds the planned work
// items. The scheduler never calls it; services read items before a run
// and write dates after.
package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// ItemDetails is the tracker's view of one work item.
type ItemDetails struct {
	ID       string
	Type     string
	Title    string
	State    string
	Tags     []string
	ParentID string

	StartDate  *time.Time
	TargetDate *time.Time
	FinishDate *time.Time
}

func (d *ItemDetails) IsEpic() bool {
	return strings.EqualFold(d.Type, domain.TrackerTypeEpic)
}

// HasTag reports whether the item carries tag, ignoring case.
func (d *ItemDetails) HasTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, t := range d.Tags {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}

// Fields is a partial date update. Nil fields are left unchanged.
type Fields struct {
	StartDate  *time.Time
	TargetDate *time.Time
}

func (f Fields) IsEmpty() bool {
	return f.StartDate == nil && f.TargetDate == nil
}

// NewItem describes a work item to create.
type NewItem struct {
	Type  string
	Title string
	State string
	Tags  []string
}

// Client is the issue tracker surface cadence needs.
type Client interface {
	// QueryByTag returns the IDs of every item carrying tag.
	QueryByTag(ctx context.Context, tag string) ([]string, error)
	GetDetails(ctx context.Context, id string) (*ItemDetails, error)
	UpdateFields(ctx context.Context, id string, f Fields) error
	// CreateItem creates an item and returns its ID.
	CreateItem(ctx context.Context, item NewItem) (string, error)
	AddParentRelation(ctx context.Context, childID, parentID string) error
}

// ProgressLabel maps a tracker state to the progress text the state
// classifier understands.
func ProgressLabel(state string) string {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "done", "closed", "removed", "resolved", "completed":
		return "done"
	case "active", "committed", "in progress", "doing":
		return "in progress"
	default:
		return ""
	}
}
