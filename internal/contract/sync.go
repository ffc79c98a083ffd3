package contract

import "github.com/alexanderramin/cadence/internal/app"

type SyncRequest = app.SyncRequest

func NewSyncRequest() SyncRequest {
	return app.NewSyncRequest()
}

type DateUpdate = app.DateUpdate

type SyncResponse = app.SyncResponse

type ScheduleRequest = app.ScheduleRequest

func NewScheduleRequest(path string) ScheduleRequest {
	return app.NewScheduleRequest(path)
}

type ScheduleResponse = app.ScheduleResponse
