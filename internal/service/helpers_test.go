package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/metrics"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/alexanderramin/cadence/internal/tracker"
	"github.com/rs/zerolog"
)

const (
	testTag    = "draft->laqs"
	testPrefix = "[Draft->LAQS]"
)

var testRef = domain.MustParseDay("2025-06-02")

func testSettings() Settings {
	return Settings{
		Tag:         testTag,
		SubGroupTag: "LM",
		TitlePrefix: testPrefix,
		Scheduler: scheduler.Options{
			Reference:   testRef,
			Constraints: domain.DefaultConstraints(),
		},
	}
}

func testDeps(t *testing.T, client tracker.Client) (Deps, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return Deps{
		Tracker: client,
		UoW:     db.NewSQLiteUnitOfWork(database),
		Metrics: metrics.New(),
		Logger:  zerolog.Nop(),
	}, database
}

// recordingObserver keeps every observed use case event.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func title(s string) string { return testPrefix + " " + s }
