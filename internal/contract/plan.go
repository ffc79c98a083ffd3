package contract

import "github.com/alexanderramin/cadence/internal/app"

type PlanRequest = app.PlanRequest

func NewPlanRequest() PlanRequest {
	return app.NewPlanRequest()
}

type ItemChange = app.ItemChange

type EpicRole = app.EpicRole

const (
	EpicActivityLog EpicRole = app.EpicActivityLog
	EpicSearch      EpicRole = app.EpicSearch
	EpicQuery       EpicRole = app.EpicQuery
)

type EpicSpan = app.EpicSpan

type ParentUpdate = app.ParentUpdate

type PlanResponse = app.PlanResponse
