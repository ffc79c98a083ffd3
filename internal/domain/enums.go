package domain

import "strings"

type ItemType string

const (
	ItemLarge ItemType = "large"
	ItemSmall ItemType = "small"
)

// ItemTypeFromEffort maps a t-shirt effort ("S", "M", "L") to an item type.
// Only "S" is small; any other non-empty effort is large.
func ItemTypeFromEffort(effort string) ItemType {
	if strings.EqualFold(strings.TrimSpace(effort), "S") {
		return ItemSmall
	}
	return ItemLarge
}

// ItemTypeFromTracker maps a tracker work item type name to an item type.
func ItemTypeFromTracker(trackerType string) ItemType {
	if strings.EqualFold(strings.TrimSpace(trackerType), TrackerTypeFeature) {
		return ItemLarge
	}
	return ItemSmall
}

// TrackerType returns the tracker work item type used when creating an item.
func (t ItemType) TrackerType() string {
	if t == ItemSmall {
		return TrackerTypeBacklogItem
	}
	return TrackerTypeFeature
}

const (
	TrackerTypeFeature     = "Feature"
	TrackerTypeBacklogItem = "Product Backlog Item"
	TrackerTypeEpic        = "Epic"
)

type Category string

const (
	CategoryActivityLog Category = "activity_log"
	CategorySearch      Category = "search"
	CategoryOrphan      Category = "orphan"
)

// Categories lists every category in scheduling priority order.
var Categories = []Category{CategoryActivityLog, CategoryOrphan, CategorySearch}

// Priority returns the scheduling priority (lower = scheduled first).
// Activity log work has downstream dependents in search, so it goes first.
func (c Category) Priority() int {
	switch c {
	case CategoryActivityLog:
		return 0
	case CategoryOrphan:
		return 1
	case CategorySearch:
		return 2
	default:
		return 3
	}
}

// Label returns a human readable category name.
func (c Category) Label() string {
	switch c {
	case CategoryActivityLog:
		return "Activity Log"
	case CategorySearch:
		return "Search"
	case CategoryOrphan:
		return "Orphan"
	default:
		return string(c)
	}
}

// ValidCategories is the canonical set of accepted category strings.
var ValidCategories = map[string]bool{
	string(CategoryActivityLog): true,
	string(CategorySearch):      true,
	string(CategoryOrphan):      true,
}

type ProgressState string

const (
	StateDone   ProgressState = "done"
	StateActive ProgressState = "active"
	StateNew    ProgressState = "new"
)

// IsFixed reports whether items in this state are placed without capacity checks.
func (s ProgressState) IsFixed() bool {
	return s == StateDone || s == StateActive
}

// TrackerState returns the tracker state name for an item created in this state.
func (s ProgressState) TrackerState() string {
	switch s {
	case StateDone:
		return "Done"
	case StateActive:
		return "Active"
	default:
		return "New"
	}
}
