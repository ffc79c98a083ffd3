package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

type historyService struct {
	runs repository.RunRepo
}

func NewHistoryService(runs repository.RunRepo) HistoryService {
	return &historyService{runs: runs}
}

func (s *historyService) ListRuns(ctx context.Context, limit int) ([]*domain.PlanRun, error) {
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

func (s *historyService) GetRun(ctx context.Context, id string) (*domain.PlanRun, error) {
	return s.runs.GetByID(ctx, id)
}
