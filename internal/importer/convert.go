package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

// SkippedRow is a row left out of the backlog with the reason.
type SkippedRow struct {
	Index  int
	Reason string
}

// Backlog is a converted backlog ready for scheduling.
type Backlog struct {
	Items    []domain.WorkItem
	SubGroup []domain.WorkItem
	Skipped  []SkippedRow
	// Rows keeps the source row of every converted item, keyed by item ID.
	Rows map[string]BacklogRow
}

// Convert turns validated rows into work items. Rows without a feature or
// effort are skipped. Rows without an id get a positional one.
func Convert(file *BacklogFile) *Backlog {
	out := &Backlog{Rows: make(map[string]BacklogRow)}

	for i, row := range file.Items {
		if strings.TrimSpace(row.Feature) == "" {
			out.Skipped = append(out.Skipped, SkippedRow{Index: i, Reason: "missing feature"})
			continue
		}
		if strings.TrimSpace(row.Effort) == "" {
			out.Skipped = append(out.Skipped, SkippedRow{Index: i, Reason: "missing effort"})
			continue
		}

		id := domain.Coalesce(strings.TrimSpace(row.ID), fmt.Sprintf("row-%03d", i+1))
		item := domain.WorkItem{
			ID:            id,
			Title:         strings.TrimSpace(row.Feature),
			Type:          domain.ItemTypeFromEffort(row.Effort),
			Signals:       RowSignals(row),
			ParentTitle:   strings.TrimSpace(row.ParentFeature),
			ProgressLabel: row.Progress,
			Duration:      domain.FirstSet(0, row.DurationDays),
		}
		out.Rows[id] = row

		if domain.FirstSet(item.ParentTitle != "", row.SubGroup) {
			out.SubGroup = append(out.SubGroup, item)
		} else {
			out.Items = append(out.Items, item)
		}
	}

	return out
}

// RowSignals reads the three signal columns.
func RowSignals(row BacklogRow) domain.Signals {
	return domain.Signals{
		ActivityLog: scheduler.HasSignal(row.ActivityLog),
		SearchUI:    scheduler.HasSignal(row.SearchUI),
		Shim:        scheduler.HasSignal(row.Shim),
	}
}

// Tags returns the tracker tags for a created row: the planning tag plus one
// tag per signal column holding exactly "+".
func Tags(row BacklogRow, planningTag string) []string {
	tags := []string{planningTag}
	if strings.TrimSpace(row.SearchUI) == "+" {
		tags = append(tags, "UI /search")
	}
	if strings.TrimSpace(row.Shim) == "+" {
		tags = append(tags, "shim")
	}
	if strings.TrimSpace(row.ActivityLog) == "+" {
		tags = append(tags, "AL")
	}
	return tags
}

// TrackerState maps a row's progress text to the tracker state it is
// created in.
func TrackerState(row BacklogRow) string {
	return scheduler.ClassifyProgress(row.Progress).TrackerState()
}
