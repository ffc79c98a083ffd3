package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

const runColumns = `id, kind, reference_date, applied, blackout, item_count,
		blackout_impacted, skipped_count, seed, created_at`

const runItemColumns = `seq, item_id, title, kind, category, state, sub_group,
		duration_days, adjusted_days, start_date, target_date, blackout_impact, note`

// SQLiteRunRepo implements RunRepo on the history database. Built on a
// transaction it writes a run atomically.
type SQLiteRunRepo struct {
	db db.DBTX
}

func NewSQLiteRunRepo(db db.DBTX) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: db}
}

func (r *SQLiteRunRepo) Create(ctx context.Context, run *domain.PlanRun) error {
	if err := run.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO plan_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		string(run.Kind),
		nullableDay(run.Reference),
		boolToInt(run.Applied),
		run.Blackout,
		run.ItemCount,
		run.BlackoutImpacted,
		run.SkippedCount,
		int64(run.Seed),
		run.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan run: %w", err)
	}

	itemQuery := `INSERT INTO plan_run_items (run_id, ` + runItemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, it := range run.Items {
		_, err := r.db.ExecContext(ctx, itemQuery,
			run.ID,
			it.Seq,
			it.ItemID,
			it.Title,
			string(it.Kind),
			string(it.Category),
			string(it.State),
			boolToInt(it.SubGroup),
			it.Duration,
			it.Adjusted,
			nullableDay(it.StartDate),
			nullableDay(it.TargetDate),
			boolToInt(it.BlackoutImpact),
			it.Note,
		)
		if err != nil {
			return fmt.Errorf("inserting run item %d (%s): %w", it.Seq, it.ItemID, err)
		}
	}
	return nil
}

func (r *SQLiteRunRepo) GetByID(ctx context.Context, id string) (*domain.PlanRun, error) {
	query := `SELECT ` + runColumns + ` FROM plan_runs WHERE id = ?`
	run, err := r.scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, ErrNotFound) && id != "" {
		run, err = r.getByPrefix(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Items = items
	return run, nil
}

// getByPrefix resolves a short run ID as printed by the history listing.
func (r *SQLiteRunRepo) getByPrefix(ctx context.Context, prefix string) (*domain.PlanRun, error) {
	query := `SELECT ` + runColumns + ` FROM plan_runs WHERE id LIKE ? || '%' LIMIT 2`
	rows, err := r.db.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("finding plan run by prefix: %w", err)
	}
	defer rows.Close()

	runs, err := r.scanRuns(rows)
	if err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("plan run %s: %w", prefix, ErrNotFound)
	case 1:
		return runs[0], nil
	default:
		return nil, fmt.Errorf("plan run prefix %q is ambiguous", prefix)
	}
}

func (r *SQLiteRunRepo) List(ctx context.Context, limit int) ([]*domain.PlanRun, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + runColumns + ` FROM plan_runs ORDER BY created_at DESC, id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing plan runs: %w", err)
	}
	defer rows.Close()
	return r.scanRuns(rows)
}

func (r *SQLiteRunRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plan_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("plan run %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRunRepo) listItems(ctx context.Context, runID string) ([]domain.RunItem, error) {
	query := `SELECT ` + runItemColumns + ` FROM plan_run_items WHERE run_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing run items: %w", err)
	}
	defer rows.Close()

	var items []domain.RunItem
	for rows.Next() {
		var it domain.RunItem
		var kind, category, state string
		var subGroup, blackout int
		var start, target sql.NullString
		if err := rows.Scan(
			&it.Seq, &it.ItemID, &it.Title, &kind, &category, &state, &subGroup,
			&it.Duration, &it.Adjusted, &start, &target, &blackout, &it.Note,
		); err != nil {
			return nil, fmt.Errorf("scanning run item: %w", err)
		}
		it.Kind = domain.RunItemKind(kind)
		it.Category = domain.Category(category)
		it.State = domain.ProgressState(state)
		it.SubGroup = intToBool(subGroup)
		it.BlackoutImpact = intToBool(blackout)
		it.StartDate = parseNullableDay(start)
		it.TargetDate = parseNullableDay(target)
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRunRepo) scanRun(row *sql.Row) (*domain.PlanRun, error) {
	run, err := r.scanRunFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan run: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan run: %w", err)
	}
	return run, nil
}

func (r *SQLiteRunRepo) scanRuns(rows *sql.Rows) ([]*domain.PlanRun, error) {
	var runs []*domain.PlanRun
	for rows.Next() {
		run, err := r.scanRunFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRunRepo) scanRunFrom(s rowScanner) (*domain.PlanRun, error) {
	var run domain.PlanRun
	var kind, createdAt string
	var ref sql.NullString
	var applied int
	var seed int64
	if err := s.Scan(
		&run.ID, &kind, &ref, &applied, &run.Blackout, &run.ItemCount,
		&run.BlackoutImpacted, &run.SkippedCount, &seed, &createdAt,
	); err != nil {
		return nil, err
	}
	run.Kind = domain.RunKind(kind)
	run.Reference = parseNullableDay(ref)
	run.Applied = intToBool(applied)
	run.Seed = uint64(seed)

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	run.CreatedAt = t
	return &run, nil
}
