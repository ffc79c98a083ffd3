package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Rollup derives an aggregate span: the earliest child start and the latest
// child target. Children without a date are ignored for that end. An empty
// set yields an empty span.
//
// The same reducer serves synthetic parent features, epics and epics of
// epics, since a DateSpan is itself Dated.
func Rollup[T domain.Dated](children []T) domain.DateSpan {
	var start, target *time.Time
	for _, c := range children {
		span := c.Dates()
		if span.Start != nil && (start == nil || span.Start.Before(*start)) {
			s := *span.Start
			start = &s
		}
		if span.Target != nil && (target == nil || span.Target.After(*target)) {
			t := *span.Target
			target = &t
		}
	}
	return domain.DateSpan{Start: start, Target: target}
}

// ParentSpan is the rolled-up span of one synthetic parent feature.
type ParentSpan struct {
	Title    string
	Span     domain.DateSpan
	Children int
}

// RollupByParent groups sub-group items by parent title and rolls each
// group up. Results are sorted by title.
func RollupByParent(items []*domain.WorkItem) []ParentSpan {
	groups := make(map[string][]*domain.WorkItem)
	for _, it := range items {
		if !it.SubGroup || it.ParentTitle == "" {
			continue
		}
		groups[it.ParentTitle] = append(groups[it.ParentTitle], it)
	}

	out := make([]ParentSpan, 0, len(groups))
	for title, children := range groups {
		out = append(out, ParentSpan{Title: title, Span: Rollup(children), Children: len(children)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}
