package tracker

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryConfig controls exponential backoff for tracker calls.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Jitter:      true,
	}
}

// retry runs fn until it succeeds, returns a non-retryable error, or the
// attempts run out.
func retry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	attempts := max(cfg.MaxAttempts, 1)
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == attempts-1 {
			break
		}

		delay := cfg.BaseDelay << attempt
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
		if cfg.Jitter {
			delay = time.Duration(float64(delay) * (0.5 + rand.Float64()*0.5))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

// Retrying wraps a client so every call is retried on transient errors.
type Retrying struct {
	next Client
	cfg  RetryConfig
}

func WithRetry(next Client, cfg RetryConfig) *Retrying {
	return &Retrying{next: next, cfg: cfg}
}

func (r *Retrying) QueryByTag(ctx context.Context, tag string) ([]string, error) {
	var ids []string
	err := retry(ctx, r.cfg, func(ctx context.Context) error {
		var err error
		ids, err = r.next.QueryByTag(ctx, tag)
		return err
	})
	return ids, err
}

func (r *Retrying) GetDetails(ctx context.Context, id string) (*ItemDetails, error) {
	var d *ItemDetails
	err := retry(ctx, r.cfg, func(ctx context.Context) error {
		var err error
		d, err = r.next.GetDetails(ctx, id)
		return err
	})
	return d, err
}

func (r *Retrying) UpdateFields(ctx context.Context, id string, f Fields) error {
	return retry(ctx, r.cfg, func(ctx context.Context) error {
		return r.next.UpdateFields(ctx, id, f)
	})
}

// CreateItem is attempted once; creates are not idempotent.
func (r *Retrying) CreateItem(ctx context.Context, item NewItem) (string, error) {
	return r.next.CreateItem(ctx, item)
}

func (r *Retrying) AddParentRelation(ctx context.Context, childID, parentID string) error {
	return retry(ctx, r.cfg, func(ctx context.Context) error {
		return r.next.AddParentRelation(ctx, childID, parentID)
	})
}
