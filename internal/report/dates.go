package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/domain"
)

// DateUpdates writes the target-date sync report.
func DateUpdates(w io.Writer, resp *contract.SyncResponse, now time.Time) error {
	var b strings.Builder

	verb := "to update"
	if resp.Applied {
		verb = "updated"
	}

	b.WriteString("# Work Item Target Date Updates Report\n\n")
	fmt.Fprintf(&b, "Generated on: %s\n\n", now.Format("2006-01-02 15:04"))
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Items %s: %d\n", verb, len(resp.Updated))
	fmt.Fprintf(&b, "- Items skipped: %d\n", len(resp.Skipped))
	if len(resp.Failures) > 0 {
		fmt.Fprintf(&b, "- Updates failed: %d\n", len(resp.Failures))
	}
	b.WriteString("\n")

	if len(resp.Updated) > 0 {
		b.WriteString("## Items Updated\n\n")
		for _, u := range resp.Updated {
			fmt.Fprintf(&b, "### #%s \"%s\"\n", u.ID, u.Title)
			fmt.Fprintf(&b, "- **Finish Date**: %s\n", u.Finish.Format(domain.DateLayout))
			fmt.Fprintf(&b, "- **Updated Target Date**: %s\n", u.Finish.Format(domain.DateLayout))
			b.WriteString("- **Operation**: Copied finish date to target date\n")
			if u.PrevTarget != nil {
				fmt.Fprintf(&b, "- **Previous Target Date**: %s\n", domain.FormatDay(u.PrevTarget))
			}
			b.WriteString("\n")
		}
	}

	if len(resp.Skipped) > 0 {
		b.WriteString("## Items Skipped\n\n")
		for _, sk := range resp.Skipped {
			fmt.Fprintf(&b, "- #%s \"%s\": %s\n", sk.ID, sk.Title, sk.Reason)
		}
		b.WriteString("\n")
	}

	if len(resp.Failures) > 0 {
		b.WriteString("## Failed Updates\n\n")
		for _, f := range resp.Failures {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
