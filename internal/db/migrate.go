package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillRunCounts(db); err != nil {
		return fmt.Errorf("backfilling run item counts: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plan_runs (
		id                TEXT PRIMARY KEY,
		kind              TEXT NOT NULL
		                  CHECK(kind IN ('plan','schedule','sync','create')),
		reference_date    TEXT,
		applied           INTEGER NOT NULL DEFAULT 0,
		blackout          TEXT NOT NULL DEFAULT '',
		item_count        INTEGER NOT NULL DEFAULT 0,
		blackout_impacted INTEGER NOT NULL DEFAULT 0,
		skipped_count     INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS plan_run_items (
		run_id          TEXT NOT NULL REFERENCES plan_runs(id) ON DELETE CASCADE,
		seq             INTEGER NOT NULL,
		item_id         TEXT NOT NULL,
		title           TEXT NOT NULL DEFAULT '',
		kind            TEXT NOT NULL DEFAULT 'item'
		                CHECK(kind IN ('item','epic','parent','skipped')),
		category        TEXT NOT NULL DEFAULT '',
		state           TEXT NOT NULL DEFAULT '',
		sub_group       INTEGER NOT NULL DEFAULT 0,
		duration_days   INTEGER NOT NULL DEFAULT 0,
		adjusted_days   INTEGER NOT NULL DEFAULT 0,
		start_date      TEXT,
		target_date     TEXT,
		blackout_impact INTEGER NOT NULL DEFAULT 0,
		note            TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_runs_created ON plan_runs(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_run_items_item ON plan_run_items(item_id)`,

	// Seed of the duration sampler, 0 for fixed durations.
	`ALTER TABLE plan_runs ADD COLUMN seed INTEGER NOT NULL DEFAULT 0`,
}

// migrateBackfillRunCounts fills item_count for runs written before the
// count was stored.
func migrateBackfillRunCounts(db *sql.DB) error {
	ctx := context.Background()
	query := `UPDATE plan_runs
		SET item_count = (
			SELECT COUNT(*) FROM plan_run_items i
			WHERE i.run_id = plan_runs.id AND i.kind = 'item'
		)
		WHERE item_count = 0`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("updating item counts: %w", err)
	}
	return nil
}
