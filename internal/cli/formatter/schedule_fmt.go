package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

const (
	shareBarWidth  = 10
	titleMaxLength = 48
)

// FormatPlan renders a tracker plan run: per-category summary, the dates
// that change, epic and parent spans, and anything skipped or failed.
func FormatPlan(resp *contract.PlanResponse) string {
	var b strings.Builder

	b.WriteString(runLine(resp.Reference, resp.Blackout, resp.Applied, resp.RunID))
	b.WriteString("\n\n")
	if resp.Result != nil {
		b.WriteString(formatSummary(resp.Result.All))
		b.WriteString("\n")
	}

	b.WriteString(Header("Changes") + "\n")
	headers := []string{"ID", "TITLE", "CATEGORY", "STATE", "START", "TARGET", ""}
	rows := make([][]string, 0, len(resp.Changes))
	unchanged := 0
	for _, c := range resp.Changes {
		if !c.Changed() {
			unchanged++
			continue
		}
		rows = append(rows, []string{
			Dim("#" + c.ID),
			Truncate(c.Title, titleMaxLength),
			CategoryBadge(c.Category),
			StatePill(c.State),
			DayChange(c.PrevStart, c.Start),
			DayChange(c.PrevTarget, c.Target),
			BlackoutMark(c.BlackoutImpact),
		})
	}
	if len(rows) == 0 {
		b.WriteString(Dim("No date changes.") + "\n")
	} else {
		b.WriteString(RenderTable(headers, rows))
	}
	if unchanged > 0 {
		b.WriteString(Dim(fmt.Sprintf("%d item(s) already up to date.", unchanged)) + "\n")
	}

	if len(resp.Epics) > 0 {
		b.WriteString("\n" + Header("Epics") + "\n")
		erows := make([][]string, 0, len(resp.Epics))
		for _, e := range resp.Epics {
			if !e.Found {
				erows = append(erows, []string{Dim("--"), Dim(string(e.Role) + " epic not found"), "", ""})
				continue
			}
			erows = append(erows, []string{Dim("#" + e.ID), Truncate(e.Title, titleMaxLength), Day(e.Span.Start), Day(e.Span.Target)})
		}
		b.WriteString(RenderTable([]string{"ID", "EPIC", "START", "TARGET"}, erows))
	}

	if len(resp.Parents) > 0 {
		b.WriteString("\n" + Header("Parent features") + "\n")
		prows := make([][]string, 0, len(resp.Parents))
		for _, p := range resp.Parents {
			prows = append(prows, []string{Dim("#" + p.ID), Truncate(p.Title, titleMaxLength), strconv.Itoa(p.Children), Day(p.Span.Start), Day(p.Span.Target)})
		}
		b.WriteString(RenderTableAligned([]string{"ID", "FEATURE", "ITEMS", "START", "TARGET"}, prows, 2))
	}

	b.WriteString(formatSkipped(resp.Skipped))
	b.WriteString(formatFailures(resp.Failures))
	b.WriteString(formatWarnings(resp.Warnings))
	return RenderBox("Plan", b.String())
}

// FormatSchedule renders an offline backlog schedule.
func FormatSchedule(resp *contract.ScheduleResponse) string {
	var b strings.Builder

	b.WriteString(runLine(resp.Reference, resp.Blackout, false, resp.RunID))
	b.WriteString("\n\n")
	if resp.Result == nil {
		return RenderBox("Schedule", b.String())
	}
	b.WriteString(formatSummary(resp.Result.All))

	for _, cat := range domain.Categories {
		items := resp.Result.Category(cat)
		if len(items) == 0 {
			continue
		}
		b.WriteString("\n" + Header(cat.Label()) + "\n")
		b.WriteString(formatItems(items))
	}

	if len(resp.Parents) > 0 {
		b.WriteString("\n" + Header("Parent features") + "\n")
		b.WriteString(formatParentSpans(resp.Parents))
	}
	b.WriteString(formatSkipped(resp.Skipped))
	return RenderBox("Schedule", b.String())
}

// FormatSync renders a target-date sync.
func FormatSync(resp *contract.SyncResponse) string {
	var b strings.Builder

	b.WriteString(modeLine(resp.Applied, resp.RunID) + "\n\n")
	if len(resp.Updated) == 0 {
		b.WriteString(Dim("No items with a finish date.") + "\n")
	} else {
		rows := make([][]string, 0, len(resp.Updated))
		for _, u := range resp.Updated {
			finish := u.Finish
			rows = append(rows, []string{
				Dim("#" + u.ID),
				Truncate(u.Title, titleMaxLength),
				DayChange(u.PrevTarget, &finish),
				YesNo(u.Applied),
			})
		}
		b.WriteString(RenderTable([]string{"ID", "TITLE", "TARGET", "APPLIED"}, rows))
	}
	b.WriteString(formatSkipped(resp.Skipped))
	b.WriteString(formatFailures(resp.Failures))
	b.WriteString(formatWarnings(resp.Warnings))
	return RenderBox("Sync targets", b.String())
}

// FormatCreate renders the rows created, or that would be created, from a
// backlog file.
func FormatCreate(resp *contract.CreateResponse) string {
	var b strings.Builder

	b.WriteString(modeLine(resp.Applied, resp.RunID) + "\n\n")
	rows := make([][]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		id := Dim("--")
		if it.TrackerID != "" {
			id = "#" + it.TrackerID
		}
		parent := Dim("--")
		if it.ParentFeature != "" {
			parent = Truncate(it.ParentFeature, 24)
			if it.ParentID != "" {
				parent += Dim(" #" + it.ParentID)
			}
		}
		rows = append(rows, []string{
			id,
			Truncate(it.Title, titleMaxLength),
			it.Type,
			it.State,
			strings.Join(it.Tags, ", "),
			parent,
		})
	}
	if len(rows) == 0 {
		b.WriteString(Dim("Nothing to create.") + "\n")
	} else {
		b.WriteString(RenderTable([]string{"ID", "TITLE", "TYPE", "STATE", "TAGS", "PARENT"}, rows))
	}
	b.WriteString(formatSkipped(resp.Skipped))
	b.WriteString(formatFailures(resp.Failures))
	b.WriteString(formatWarnings(resp.Warnings))
	return RenderBox("Create", b.String())
}

// FormatHistory lists recorded runs, newest first.
func FormatHistory(runs []*domain.PlanRun, now time.Time) string {
	if len(runs) == 0 {
		return Dim("No runs recorded yet.") + "\n"
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			TruncID(r.ID),
			string(r.Kind),
			HumanTimestamp(r.CreatedAt, now),
			Day(r.Reference),
			YesNo(r.Applied),
			strconv.Itoa(r.ItemCount),
			strconv.Itoa(r.BlackoutImpacted),
			strconv.Itoa(r.SkippedCount),
		})
	}
	return RenderTableAligned(
		[]string{"ID", "KIND", "WHEN", "REFERENCE", "APPLIED", "ITEMS", "BLACKOUT", "SKIPPED"},
		rows, 5, 6, 7,
	)
}

// FormatRun shows one recorded run with all of its rows.
func FormatRun(run *domain.PlanRun) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", Bold("Run"), run.ID)
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s\n",
		Dim("kind"), run.Kind,
		Dim("reference"), Day(run.Reference),
		Dim("applied"), YesNo(run.Applied))
	fmt.Fprintf(&b, "%s %s  %s %s\n",
		Dim("blackout"), domain.Coalesce(run.Blackout, "none"),
		Dim("recorded"), run.CreatedAt.Format(time.RFC3339))
	if run.Seed != 0 {
		fmt.Fprintf(&b, "%s %d\n", Dim("seed"), run.Seed)
	}
	b.WriteString("\n")

	rows := make([][]string, 0, len(run.Items))
	for _, it := range run.Items {
		days := ""
		if it.Duration > 0 {
			days = strconv.Itoa(it.Duration)
			if it.Adjusted > it.Duration {
				days += Dim(fmt.Sprintf(" (%d)", it.Adjusted))
			}
		}
		title := Truncate(it.Title, titleMaxLength)
		if it.Note != "" {
			title += Dim(" " + it.Note)
		}
		rows = append(rows, []string{
			strconv.Itoa(it.Seq),
			string(it.Kind),
			Dim("#" + it.ItemID),
			title,
			CategoryBadge(it.Category),
			string(it.State),
			days,
			Day(it.StartDate),
			Day(it.TargetDate),
			BlackoutMark(it.BlackoutImpact),
		})
	}
	b.WriteString(RenderTableAligned(
		[]string{"#", "KIND", "ID", "TITLE", "CATEGORY", "STATE", "DAYS", "START", "TARGET", ""},
		rows, 0, 6,
	))
	return RenderBox("Run", b.String())
}

func runLine(ref time.Time, blackout domain.BlackoutWindow, applied bool, runID string) string {
	return fmt.Sprintf("%s %s  %s %s  %s",
		Dim("reference"), ref.Format(domain.DateLayout),
		Dim("blackout"), blackout.String(),
		modeLine(applied, runID))
}

func modeLine(applied bool, runID string) string {
	mode := StyleYellow.Render("DRY RUN")
	if applied {
		mode = StyleGreen.Render("APPLIED")
	}
	if runID != "" {
		mode += Dim("  run " + runID)
	}
	return mode
}

func formatSummary(items []*domain.WorkItem) string {
	type counts struct{ done, active, fresh, blackout int }
	byCat := make(map[domain.Category]*counts, len(domain.Categories))
	for _, c := range domain.Categories {
		byCat[c] = &counts{}
	}
	for _, it := range items {
		c, ok := byCat[it.Category]
		if !ok {
			continue
		}
		switch it.State {
		case domain.StateDone:
			c.done++
		case domain.StateActive:
			c.active++
		default:
			c.fresh++
		}
		if it.BlackoutImpact {
			c.blackout++
		}
	}

	rows := make([][]string, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		c := byCat[cat]
		total := c.done + c.active + c.fresh
		rows = append(rows, []string{
			CategoryBadge(cat),
			strconv.Itoa(c.done),
			strconv.Itoa(c.active),
			strconv.Itoa(c.fresh),
			strconv.Itoa(c.blackout),
			RenderShare(c.done, total, shareBarWidth),
		})
	}
	return RenderTableAligned([]string{"CATEGORY", "DONE", "ACTIVE", "NEW", "BLACKOUT", "PROGRESS"}, rows, 1, 2, 3, 4)
}

func formatItems(items []*domain.WorkItem) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		title := Truncate(it.Title, titleMaxLength)
		if it.SubGroup {
			title += Dim(" [sub-group]")
		}
		days := strconv.Itoa(it.Duration)
		if it.AdjustedDuration > it.Duration {
			days += Dim(fmt.Sprintf(" (%d)", it.AdjustedDuration))
		}
		rows = append(rows, []string{
			Dim("#" + it.ID),
			title,
			StatePill(it.State),
			days,
			Day(it.StartDate),
			Day(it.TargetDate),
			BlackoutMark(it.BlackoutImpact),
		})
	}
	return RenderTableAligned([]string{"ID", "TITLE", "STATE", "DAYS", "START", "TARGET", ""}, rows, 3)
}

func formatParentSpans(parents []scheduler.ParentSpan) string {
	rows := make([][]string, 0, len(parents))
	for _, p := range parents {
		rows = append(rows, []string{Truncate(p.Title, titleMaxLength), strconv.Itoa(p.Children), Day(p.Span.Start), Day(p.Span.Target)})
	}
	return RenderTableAligned([]string{"FEATURE", "ITEMS", "START", "TARGET"}, rows, 1)
}

func formatSkipped(skipped []contract.SkippedItem) string {
	if len(skipped) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n" + Header("Skipped") + "\n")
	for _, s := range skipped {
		label := domain.Coalesce(s.Title, s.ID)
		if s.ID != "" && s.Title != "" {
			label = "#" + s.ID + " " + s.Title
		}
		fmt.Fprintf(&b, "  %s %s\n", label, Dim("("+s.Reason+")"))
	}
	return b.String()
}

func formatFailures(failures []contract.ItemFailure) string {
	if len(failures) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n" + Header("Failures") + "\n")
	for _, f := range failures {
		b.WriteString(StyleRed.Render("  ✖ "+f.String()) + "\n")
	}
	return b.String()
}

func formatWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, w := range warnings {
		b.WriteString(StyleYellow.Render("  WARNING: "+w) + "\n")
	}
	return b.String()
}
