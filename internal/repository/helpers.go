package repository

import (
	"database/sql"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// parseNullableDay parses a nullable YYYY-MM-DD column. Malformed values
// read as NULL.
func parseNullableDay(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := domain.ParseDay(s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableDay converts an optional day to a value for SQLite storage.
func nullableDay(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(domain.DateLayout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}
