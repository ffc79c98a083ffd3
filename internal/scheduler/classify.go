package scheduler

import (
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
	"golang.org/x/text/cases"
)

// Sub-group parent features and the category their children belong to.
var subGroupParents = map[string]domain.Category{
	"generate lm - activity log": domain.CategoryActivityLog,
	"generate lm":                domain.CategoryActivityLog,
	"generate lm - search":       domain.CategorySearch,
}

var (
	doneLabels   = []string{"done", "complete", "closed"}
	activeLabels = []string{"in progress", "not done", "partial"}
)

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// HasSignal reports whether a source column marks the item, i.e. contains "+".
func HasSignal(value string) bool {
	return strings.Contains(value, "+")
}

// SignalsFromTitle derives category signals from a tracker title when no
// source row is available.
func SignalsFromTitle(title string) domain.Signals {
	folded := fold(title)
	return domain.Signals{
		ActivityLog: strings.Contains(folded, "activity log"),
		SearchUI:    strings.Contains(folded, "search") || strings.Contains(title, "UI"),
	}
}

// Categorize assigns exactly one category. Activity log wins over search,
// which wins over the orphan fallback.
func Categorize(s domain.Signals) domain.Category {
	switch {
	case s.ActivityLog:
		return domain.CategoryActivityLog
	case s.SearchUI || s.Shim:
		return domain.CategorySearch
	default:
		return domain.CategoryOrphan
	}
}

// CategorizeSubGroup categorizes a sub-group item by its parent feature,
// falling back to its own signals when the parent is not a known sub-group parent.
func CategorizeSubGroup(parentTitle string, s domain.Signals) domain.Category {
	if cat, ok := subGroupParents[fold(parentTitle)]; ok {
		return cat
	}
	return Categorize(s)
}

// IsSubGroupParent reports whether title names a sub-group parent feature.
func IsSubGroupParent(title string) bool {
	_, ok := subGroupParents[fold(title)]
	return ok
}

// ClassifyProgress maps a free-text progress label to a progress state.
// Empty is New; an exact done label is Done; an in-progress phrase anywhere
// in the label is Active; anything else is New.
func ClassifyProgress(label string) domain.ProgressState {
	folded := fold(label)
	if folded == "" {
		return domain.StateNew
	}
	for _, l := range doneLabels {
		if folded == l {
			return domain.StateDone
		}
	}
	for _, l := range activeLabels {
		if strings.Contains(folded, l) {
			return domain.StateActive
		}
	}
	return domain.StateNew
}
