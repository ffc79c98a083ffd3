package scheduler

import (
	"errors"
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		Reference:   day(0),
		Constraints: domain.DefaultConstraints(),
		Blackout:    domain.BlackoutWindow{Start: day(100), End: day(120), ExtensionDays: 20},
	}
}

func TestScheduleAll_EveryItemScheduled(t *testing.T) {
	items := []domain.WorkItem{
		{ID: "1", Title: "Audit trail", Type: domain.ItemLarge, Signals: domain.Signals{ActivityLog: true}},
		{ID: "2", Title: "Search filters", Type: domain.ItemSmall, Signals: domain.Signals{SearchUI: true}},
		{ID: "3", Title: "Billing export", Type: domain.ItemSmall, ProgressLabel: "Done"},
		{ID: "4", Title: "Tagging", Type: domain.ItemLarge, ProgressLabel: "in progress"},
	}
	sub := []domain.WorkItem{
		{ID: "5", Title: "LM prompts", Type: domain.ItemSmall, ParentTitle: "Generate LM - Search"},
	}

	res, err := ScheduleAll(items, sub, testOptions())

	require.NoError(t, err)
	require.Len(t, res.All, 5)
	for _, it := range res.All {
		assert.True(t, it.Scheduled(), "item %s", it.ID)
		assert.False(t, it.TargetDate.Before(*it.StartDate), "item %s", it.ID)
	}
	assert.Len(t, res.Placements, 3, "only New items go through capacity placement")
}

func TestScheduleAll_CategoriesAndStates(t *testing.T) {
	items := []domain.WorkItem{
		{ID: "al", Type: domain.ItemSmall, Signals: domain.Signals{ActivityLog: true, SearchUI: true}},
		{ID: "se", Type: domain.ItemSmall, Signals: domain.Signals{Shim: true}},
		{ID: "or", Type: domain.ItemSmall, ProgressLabel: "closed"},
	}
	sub := []domain.WorkItem{{ID: "lm", Type: domain.ItemSmall, ParentTitle: "Generate LM"}}

	res, err := ScheduleAll(items, sub, testOptions())
	require.NoError(t, err)

	byID := map[string]*domain.WorkItem{}
	for _, it := range res.All {
		byID[it.ID] = it
	}
	assert.Equal(t, domain.CategoryActivityLog, byID["al"].Category)
	assert.Equal(t, domain.CategorySearch, byID["se"].Category)
	assert.Equal(t, domain.CategoryOrphan, byID["or"].Category)
	assert.Equal(t, domain.StateDone, byID["or"].State)
	assert.Equal(t, domain.CategoryActivityLog, byID["lm"].Category)
	assert.True(t, byID["lm"].SubGroup)
	assert.ElementsMatch(t, []*domain.WorkItem{byID["al"], byID["lm"]}, res.Category(domain.CategoryActivityLog))
}

func TestScheduleAll_PlacesNewInPriorityOrder(t *testing.T) {
	opts := testOptions()
	opts.Constraints.GlobalCapacity = 1
	opts.Constraints.SubGroupCapacity = 1
	items := []domain.WorkItem{
		{ID: "s", Type: domain.ItemSmall, Duration: 5, Signals: domain.Signals{SearchUI: true}},
		{ID: "o", Type: domain.ItemSmall, Duration: 5},
		{ID: "a", Type: domain.ItemSmall, Duration: 5, Signals: domain.Signals{ActivityLog: true}},
	}

	res, err := ScheduleAll(items, nil, opts)
	require.NoError(t, err)

	require.Len(t, res.Placements, 3)
	assert.Equal(t, "a", res.Placements[0].ItemID)
	assert.Equal(t, "o", res.Placements[1].ItemID)
	assert.Equal(t, "s", res.Placements[2].ItemID)
	assert.Equal(t, day(0), res.Placements[0].Start)
	assert.Equal(t, day(5), res.Placements[1].Start)
	assert.Equal(t, day(10), res.Placements[2].Start)
}

func TestScheduleAll_BlackoutExtension(t *testing.T) {
	opts := testOptions()
	opts.Reference = day(95)
	items := []domain.WorkItem{{ID: "x", Type: domain.ItemSmall, Duration: 10}}

	res, err := ScheduleAll(items, nil, opts)
	require.NoError(t, err)

	it := res.All[0]
	assert.Equal(t, day(95), *it.StartDate)
	assert.Equal(t, 10, it.Duration)
	assert.Equal(t, 30, it.AdjustedDuration)
	assert.Equal(t, day(125), *it.TargetDate)
	assert.True(t, it.BlackoutImpact)
	assert.Equal(t, 1, res.BlackoutImpacted())
}

func TestScheduleAll_DoesNotMutateInputs(t *testing.T) {
	items := []domain.WorkItem{{ID: "1", Type: domain.ItemSmall, ProgressLabel: "partial"}}
	sub := []domain.WorkItem{{ID: "2", Type: domain.ItemSmall, ParentTitle: "Generate LM"}}

	_, err := ScheduleAll(items, sub, testOptions())
	require.NoError(t, err)

	assert.Nil(t, items[0].StartDate)
	assert.Zero(t, items[0].Duration)
	assert.Empty(t, items[0].State)
	assert.False(t, sub[0].SubGroup)
}

func TestScheduleAll_UsesEstimatorOnlyWithoutDuration(t *testing.T) {
	opts := testOptions()
	opts.Estimator = NewFixedEstimator(DurationTable{
		domain.ItemLarge: {MinDays: 1, MaxDays: 50, DefaultDays: 40},
		domain.ItemSmall: {MinDays: 1, MaxDays: 50, DefaultDays: 3},
	})
	items := []domain.WorkItem{
		{ID: "est", Type: domain.ItemSmall},
		{ID: "preset", Type: domain.ItemSmall, Duration: 9},
	}

	res, err := ScheduleAll(items, nil, opts)
	require.NoError(t, err)

	durations := map[string]int{}
	for _, it := range res.All {
		durations[it.ID] = it.Duration
	}
	assert.Equal(t, 3, durations["est"])
	assert.Equal(t, 9, durations["preset"])
}

func TestScheduleAll_Deterministic(t *testing.T) {
	items := []domain.WorkItem{
		{ID: "1", Type: domain.ItemLarge},
		{ID: "2", Type: domain.ItemSmall, Signals: domain.Signals{SearchUI: true}},
		{ID: "3", Type: domain.ItemSmall, Signals: domain.Signals{ActivityLog: true}},
	}
	opts := testOptions()
	opts.Estimator = NewSeededEstimator(nil, 42)
	first, err := ScheduleAll(items, nil, opts)
	require.NoError(t, err)

	opts.Estimator = NewSeededEstimator(nil, 42)
	second, err := ScheduleAll(items, nil, opts)
	require.NoError(t, err)

	for i := range first.All {
		assert.Equal(t, first.All[i].ID, second.All[i].ID)
		assert.Equal(t, *first.All[i].StartDate, *second.All[i].StartDate)
		assert.Equal(t, *first.All[i].TargetDate, *second.All[i].TargetDate)
	}
}

func TestScheduleAll_InvalidConstraints(t *testing.T) {
	opts := testOptions()
	opts.Constraints.GlobalCapacity = 0

	_, err := ScheduleAll(nil, nil, opts)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "global capacity")
}

func TestValidateComplete(t *testing.T) {
	ok := placed("ok", 0, 5)
	missing := &domain.WorkItem{ID: "m", Title: "Missing"}

	require.NoError(t, ValidateComplete([]*domain.WorkItem{ok}))

	err := ValidateComplete([]*domain.WorkItem{ok, missing})
	var incomplete *IncompleteScheduleError
	require.True(t, errors.As(err, &incomplete))
	require.Len(t, incomplete.Items, 1)
	assert.Equal(t, "m", incomplete.Items[0].ID)
	assert.Contains(t, err.Error(), `"Missing"`)
}
