package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/cadence/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// RunRepo stores the plan run history.
type RunRepo interface {
	// Create inserts the run and all of its items.
	Create(ctx context.Context, run *domain.PlanRun) error
	// GetByID returns a run with its items. A unique ID prefix is accepted.
	GetByID(ctx context.Context, id string) (*domain.PlanRun, error)
	// List returns runs newest first, without items.
	List(ctx context.Context, limit int) ([]*domain.PlanRun, error)
	Delete(ctx context.Context, id string) error
}
