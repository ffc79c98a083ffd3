// Package report renders plan and date-update results as markdown.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

// SpanRow is one epic or parent feature line.
type SpanRow struct {
	ID       string
	Title    string
	Span     domain.DateSpan
	Children int
}

// PlanReport is everything the plan report shows.
type PlanReport struct {
	GeneratedAt time.Time
	Reference   time.Time
	Blackout    domain.BlackoutWindow
	Applied     bool
	Items       []*domain.WorkItem
	Epics       []SpanRow
	Parents     []SpanRow
	Skipped     []contract.SkippedItem
}

// FromPlan builds a report from a tracker plan run. Epics missing from the
// tracker are left out.
func FromPlan(resp *contract.PlanResponse) PlanReport {
	r := PlanReport{
		GeneratedAt: resp.GeneratedAt,
		Reference:   resp.Reference,
		Blackout:    resp.Blackout,
		Applied:     resp.Applied,
		Items:       resp.Result.All,
		Skipped:     resp.Skipped,
	}
	for _, e := range resp.Epics {
		if e.Found {
			r.Epics = append(r.Epics, SpanRow{ID: e.ID, Title: e.Title, Span: e.Span})
		}
	}
	for _, p := range resp.Parents {
		r.Parents = append(r.Parents, SpanRow{ID: p.ID, Title: p.Title, Span: p.Span, Children: p.Children})
	}
	return r
}

// FromSchedule builds a report from an offline backlog run.
func FromSchedule(resp *contract.ScheduleResponse, now time.Time) PlanReport {
	r := PlanReport{
		GeneratedAt: now,
		Reference:   resp.Reference,
		Blackout:    resp.Blackout,
		Items:       resp.Result.All,
		Skipped:     resp.Skipped,
	}
	for _, p := range resp.Parents {
		r.Parents = append(r.Parents, parentRow(p))
	}
	return r
}

func parentRow(p scheduler.ParentSpan) SpanRow {
	return SpanRow{Title: p.Title, Span: p.Span, Children: p.Children}
}

func stateIcon(s domain.ProgressState) string {
	switch s {
	case domain.StateDone:
		return "✅"
	case domain.StateActive:
		return "🚧"
	default:
		return "⭕"
	}
}

func typeLabel(t domain.ItemType) string {
	if t == domain.ItemSmall {
		return "PBI"
	}
	return "Feature"
}

type stateCounts struct{ total, done, active, fresh int }

func (c *stateCounts) add(s domain.ProgressState) {
	c.total++
	switch s {
	case domain.StateDone:
		c.done++
	case domain.StateActive:
		c.active++
	default:
		c.fresh++
	}
}

func (c stateCounts) String() string {
	return fmt.Sprintf("✅ %d / 🚧 %d / ⭕ %d", c.done, c.active, c.fresh)
}

// Plan writes the plan report.
func Plan(w io.Writer, r PlanReport) error {
	var b strings.Builder

	b.WriteString("# Schedule Plan\n\n")
	fmt.Fprintf(&b, "*Generated on: %s*\n\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "- **Reference date:** %s\n", r.Reference.Format(domain.DateLayout))
	fmt.Fprintf(&b, "- **Blackout:** %s\n", r.Blackout)
	mode := "dry run"
	if r.Applied {
		mode = "applied"
	}
	fmt.Fprintf(&b, "- **Mode:** %s\n\n", mode)

	byCategory := make(map[domain.Category][]*domain.WorkItem)
	for _, it := range r.Items {
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Category | Work Items | Status Breakdown |\n")
	b.WriteString("|----------|------------|------------------|\n")
	var total stateCounts
	for _, cat := range domain.Categories {
		var c stateCounts
		for _, it := range byCategory[cat] {
			c.add(it.State)
			total.add(it.State)
		}
		fmt.Fprintf(&b, "| %s | %d | %s |\n", cat.Label(), c.total, c)
	}
	fmt.Fprintf(&b, "| **Total** | **%d** | **%s** |\n\n", total.total, total)

	if len(r.Epics) > 0 {
		b.WriteString("## Epics\n\n")
		writeSpans(&b, "Epic", r.Epics, false)
	}
	if len(r.Parents) > 0 {
		b.WriteString("## Parent Features\n\n")
		writeSpans(&b, "Feature", r.Parents, true)
	}

	b.WriteString("## Work Items by Category\n")
	for _, cat := range domain.Categories {
		items := byCategory[cat]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n", cat.Label())
		b.WriteString("| | ID | Type | Title | Start | Target | Days |\n")
		b.WriteString("|-|----|------|-------|-------|--------|------|\n")
		for _, it := range items {
			days := fmt.Sprintf("%d", it.AdjustedDuration)
			if it.BlackoutImpact {
				days += " ⛔"
			}
			title := it.Title
			if it.SubGroup {
				title += " *(sub-group)*"
			}
			fmt.Fprintf(&b, "| %s | #%s | %s | %s | %s | %s | %s |\n",
				stateIcon(it.State), it.ID, typeLabel(it.Type), escapeCell(title),
				domain.FormatDay(it.StartDate), domain.FormatDay(it.TargetDate), days)
		}
	}

	if len(r.Skipped) > 0 {
		b.WriteString("\n## Skipped\n\n")
		for _, sk := range r.Skipped {
			fmt.Fprintf(&b, "- %s: %s\n", sk.ID, sk.Reason)
		}
	}

	b.WriteString("\n---\n\n## Legend\n\n")
	b.WriteString("- ✅ **Done** - completed work items\n")
	b.WriteString("- 🚧 **Active** - work in progress\n")
	b.WriteString("- ⭕ **New** - not started, placed by capacity\n")
	b.WriteString("- ⛔ interval extended for the blackout window\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSpans(b *strings.Builder, label string, rows []SpanRow, children bool) {
	if children {
		fmt.Fprintf(b, "| %s | Children | Start | Target |\n|---|---|---|---|\n", label)
	} else {
		fmt.Fprintf(b, "| %s | Start | Target |\n|---|---|---|\n", label)
	}
	for _, r := range rows {
		name := escapeCell(r.Title)
		if r.ID != "" {
			name = "#" + r.ID + " " + name
		}
		if children {
			fmt.Fprintf(b, "| %s | %d | %s | %s |\n", name, r.Children, domain.FormatDay(r.Span.Start), domain.FormatDay(r.Span.Target))
		} else {
			fmt.Fprintf(b, "| %s | %s | %s |\n", name, domain.FormatDay(r.Span.Start), domain.FormatDay(r.Span.Target))
		}
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// WriteFile renders into path, replacing any existing file.
func WriteFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("rendering report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report: %w", err)
	}
	return nil
}
