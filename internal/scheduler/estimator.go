package scheduler

import (
	"math/rand/v2"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Estimator supplies the base duration in days for an item.
type Estimator interface {
	Duration(item domain.WorkItem) int
}

// DurationRange bounds the duration of one item type.
type DurationRange struct {
	MinDays     int
	MaxDays     int
	DefaultDays int
}

type DurationTable map[domain.ItemType]DurationRange

// DefaultDurations: large items take 3-5 weeks, small items 1-2 weeks.
func DefaultDurations() DurationTable {
	return DurationTable{
		domain.ItemLarge: {MinDays: 21, MaxDays: 35, DefaultDays: 28},
		domain.ItemSmall: {MinDays: 7, MaxDays: 14, DefaultDays: 10},
	}
}

func (t DurationTable) lookup(it domain.ItemType) DurationRange {
	if r, ok := t[it]; ok {
		return r
	}
	return DefaultDurations()[domain.ItemLarge]
}

// FixedEstimator returns the default duration for the item's type.
type FixedEstimator struct {
	Table DurationTable
}

func NewFixedEstimator(table DurationTable) FixedEstimator {
	if table == nil {
		table = DefaultDurations()
	}
	return FixedEstimator{Table: table}
}

func (e FixedEstimator) Duration(item domain.WorkItem) int {
	return e.Table.lookup(item.Type).DefaultDays
}

// SeededEstimator draws a uniform duration in [MinDays, MaxDays] from a
// seeded generator. The same seed over the same input order reproduces the
// same durations. Not safe for concurrent use.
type SeededEstimator struct {
	table DurationTable
	rng   *rand.Rand
}

func NewSeededEstimator(table DurationTable, seed uint64) *SeededEstimator {
	if table == nil {
		table = DefaultDurations()
	}
	return &SeededEstimator{
		table: table,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (e *SeededEstimator) Duration(item domain.WorkItem) int {
	r := e.table.lookup(item.Type)
	if r.MaxDays <= r.MinDays {
		return r.MinDays
	}
	return r.MinDays + e.rng.IntN(r.MaxDays-r.MinDays+1)
}
