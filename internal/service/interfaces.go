package service

import (
	"context"

	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/domain"
)

type PlanService interface {
	Plan(ctx context.Context, req contract.PlanRequest) (*contract.PlanResponse, error)
}

type CreateService interface {
	Create(ctx context.Context, req contract.CreateRequest) (*contract.CreateResponse, error)
}

type SyncService interface {
	SyncTargets(ctx context.Context, req contract.SyncRequest) (*contract.SyncResponse, error)
}

type ScheduleService interface {
	Schedule(ctx context.Context, req contract.ScheduleRequest) (*contract.ScheduleResponse, error)
}

type HistoryService interface {
	ListRuns(ctx context.Context, limit int) ([]*domain.PlanRun, error)
	GetRun(ctx context.Context, id string) (*domain.PlanRun, error)
}
