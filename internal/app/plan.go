package app

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type PlanRequest struct {
	Now *time.Time
	// Apply writes dates to the tracker; otherwise the run is a dry run.
	Apply bool
	// Record persists the run in the history store.
	Record bool
}

func NewPlanRequest() PlanRequest {
	return PlanRequest{Record: true}
}

// ItemChange is the date update computed for one tracker item.
type ItemChange struct {
	ID             string
	Title          string
	Category       domain.Category
	State          domain.ProgressState
	SubGroup       bool
	Start          *time.Time
	Target         *time.Time
	PrevStart      *time.Time
	PrevTarget     *time.Time
	BlackoutImpact bool
	Applied        bool
}

// Changed reports whether the computed dates differ from the tracker's.
func (c ItemChange) Changed() bool {
	return domain.FormatDay(c.Start) != domain.FormatDay(c.PrevStart) ||
		domain.FormatDay(c.Target) != domain.FormatDay(c.PrevTarget)
}

type EpicRole string

const (
	EpicActivityLog EpicRole = "activity_log"
	EpicSearch      EpicRole = "search"
	EpicQuery       EpicRole = "query"
)

// EpicSpan is the rolled-up span of one epic. Found is false when no epic
// with a matching title exists in the tracker.
type EpicSpan struct {
	Role    EpicRole
	ID      string
	Title   string
	Span    domain.DateSpan
	Found   bool
	Applied bool
}

// ParentUpdate is the span written to a synthetic parent feature.
type ParentUpdate struct {
	ID       string
	Title    string
	Span     domain.DateSpan
	Children int
	Applied  bool
}

type PlanResponse struct {
	RunID       string
	GeneratedAt time.Time
	Reference   time.Time
	Blackout    domain.BlackoutWindow
	Applied     bool
	Result      *scheduler.Result
	Changes     []ItemChange
	Epics       []EpicSpan
	Parents     []ParentUpdate
	Skipped     []SkippedItem
	Failures    []ItemFailure
	Warnings    []string
}
