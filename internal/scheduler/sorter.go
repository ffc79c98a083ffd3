package scheduler

import (
	"sort"

	"github.com/alexanderramin/cadence/internal/domain"
)

// CanonicalSort orders New items for placement by the deterministic rules:
// 1. Category priority: activity log > orphan > search
// 2. Sub-group items before the rest of their category
// 3. Duration: shortest first
// 4. Item ID: lexical ascending
func CanonicalSort(items []*domain.WorkItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]

		// 1. Category priority
		pa, pb := a.Category.Priority(), b.Category.Priority()
		if pa != pb {
			return pa < pb
		}

		// 2. Sub-group first
		if a.SubGroup != b.SubGroup {
			return a.SubGroup
		}

		// 3. Duration (shorter first)
		if a.Duration != b.Duration {
			return a.Duration < b.Duration
		}

		// 4. Item ID (lexical)
		return a.ID < b.ID
	})
}
