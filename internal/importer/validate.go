package importer

import (
	"fmt"
	"strings"
)

var validEfforts = map[string]bool{"S": true, "M": true, "L": true, "XL": true}

// ValidateBacklog reports structural problems that defaults cannot fix.
// Loose data (unknown progress text, odd signal columns, empty rows) is
// left to the defaulting rules and is not an error.
func ValidateBacklog(file *BacklogFile) []error {
	var errs []error
	ids := make(map[string]int)

	for i, row := range file.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if row.ID != "" {
			if first, dup := ids[row.ID]; dup {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q (first at items[%d])", prefix, row.ID, first))
			} else {
				ids[row.ID] = i
			}
		}
		if row.Effort != "" && !validEfforts[strings.ToUpper(strings.TrimSpace(row.Effort))] {
			errs = append(errs, fmt.Errorf("%s.effort: invalid value %q (expected S, M, L or XL)", prefix, row.Effort))
		}
		if row.DurationDays != nil && *row.DurationDays < 1 {
			errs = append(errs, fmt.Errorf("%s.duration_days must be >= 1, got %d", prefix, *row.DurationDays))
		}
		if row.SubGroup != nil && *row.SubGroup && strings.TrimSpace(row.ParentFeature) == "" {
			errs = append(errs, fmt.Errorf("%s: sub_group rows need a parent_feature", prefix))
		}
	}

	return errs
}
