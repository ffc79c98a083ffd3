package app

import "time"

type SyncRequest struct {
	Apply  bool
	Record bool
}

func NewSyncRequest() SyncRequest {
	return SyncRequest{Record: true}
}

// DateUpdate sets an item's target date to its finish date.
type DateUpdate struct {
	ID         string
	Title      string
	Finish     time.Time
	PrevTarget *time.Time
	Applied    bool
}

type SyncResponse struct {
	RunID    string
	Applied  bool
	Updated  []DateUpdate
	Skipped  []SkippedItem
	Failures []ItemFailure
	Warnings []string
}
