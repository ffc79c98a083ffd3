package app

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

// ScheduleRequest schedules a local backlog file without a tracker.
type ScheduleRequest struct {
	BacklogPath string
	Now         *time.Time
	Record      bool
}

func NewScheduleRequest(path string) ScheduleRequest {
	return ScheduleRequest{BacklogPath: path, Record: true}
}

type ScheduleResponse struct {
	RunID     string
	Reference time.Time
	Blackout  domain.BlackoutWindow
	Result    *scheduler.Result
	Parents   []scheduler.ParentSpan
	Skipped   []SkippedItem
}
