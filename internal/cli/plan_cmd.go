package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/report"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	var apply, noRecord bool
	var reportPath, reference string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Schedule every tagged tracker item and roll dates up to epics",
		Long: `Queries the tracker for items carrying the planning tag, schedules them
under the capacity limits and blackout window, and rolls the dates up to the
epics and parent features. Without --apply nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewPlanRequest()
			req.Apply = apply
			req.Record = !noRecord
			if reference != "" {
				ref, err := parseReference(reference)
				if err != nil {
					return err
				}
				req.Now = &ref
			}

			out := cmd.OutOrStdout()
			if apply {
				ok, err := confirmApply(app, out, "Write start and target dates to the tracker?")
				if err != nil || !ok {
					return err
				}
			}

			resp, err := app.Plan.Plan(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, formatter.FormatPlan(resp))
			if reportPath != "" {
				if err := report.WriteFile(reportPath, func(w io.Writer) error {
					return report.Plan(w, report.FromPlan(resp))
				}); err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.Dim("Report written to "+reportPath))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Write the computed dates to the tracker")
	cmd.Flags().StringVar(&reportPath, "report", "", "Also write a markdown plan report to this path")
	cmd.Flags().StringVar(&reference, "reference", "", "Plan as of this day (YYYY-MM-DD) instead of the configured one")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not save the run in the history store")

	return cmd
}
