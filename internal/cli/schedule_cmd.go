package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/report"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	var backlog, reportPath, reference string
	var noRecord bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule a local backlog file without touching the tracker",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewScheduleRequest(backlog)
			req.Record = !noRecord
			if reference != "" {
				ref, err := parseReference(reference)
				if err != nil {
					return err
				}
				req.Now = &ref
			}

			resp, err := app.Schedule.Schedule(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatSchedule(resp))
			if reportPath != "" {
				now := app.now()
				if err := report.WriteFile(reportPath, func(w io.Writer) error {
					return report.Plan(w, report.FromSchedule(resp, now))
				}); err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.Dim("Report written to "+reportPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&backlog, "backlog", "b", "", "Backlog file (YAML or JSON rows)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Also write a markdown plan report to this path")
	cmd.Flags().StringVar(&reference, "reference", "", "Schedule as of this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not save the run in the history store")
	_ = cmd.MarkFlagRequired("backlog")

	return cmd
}

func parseReference(s string) (time.Time, error) {
	ref, err := domain.ParseDay(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --reference %q: expected YYYY-MM-DD", s)
	}
	return ref, nil
}
