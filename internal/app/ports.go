package app

import (
	"context"

	"github.com/alexanderramin/cadence/internal/domain"
)

type PlanUseCase interface {
	Plan(ctx context.Context, req PlanRequest) (*PlanResponse, error)
}

type CreateUseCase interface {
	Create(ctx context.Context, req CreateRequest) (*CreateResponse, error)
}

type SyncTargetsUseCase interface {
	SyncTargets(ctx context.Context, req SyncRequest) (*SyncResponse, error)
}

type ScheduleUseCase interface {
	Schedule(ctx context.Context, req ScheduleRequest) (*ScheduleResponse, error)
}

type HistoryUseCase interface {
	ListRuns(ctx context.Context, limit int) ([]*domain.PlanRun, error)
	GetRun(ctx context.Context, id string) (*domain.PlanRun, error)
}
