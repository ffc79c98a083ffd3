package domain

import "time"

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a calendar day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// MustParseDay is ParseDay for constants and tests.
func MustParseDay(s string) time.Time {
	t, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatDay formats an optional day, returning "" for nil.
func FormatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// DaysBetween returns the whole number of days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Dated is anything with an optional [start, target] span: work items and
// aggregates alike.
type Dated interface {
	Dates() DateSpan
}

// DateSpan is an optional [Start, Target] pair. An aggregate's span is itself
// Dated so it can be rolled up again at a coarser level.
type DateSpan struct {
	Start  *time.Time
	Target *time.Time
}

func (s DateSpan) Dates() DateSpan { return s }

// Complete reports whether both ends are set.
func (s DateSpan) Complete() bool {
	return s.Start != nil && s.Target != nil
}
