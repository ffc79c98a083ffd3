package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/report"
	"github.com/spf13/cobra"
)

func newSyncTargetsCmd(app *App) *cobra.Command {
	var apply, noRecord bool
	var output string

	cmd := &cobra.Command{
		Use:   "sync-targets",
		Short: "Set each tagged item's target date to its finish date",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewSyncRequest()
			req.Apply = apply
			req.Record = !noRecord

			out := cmd.OutOrStdout()
			if apply {
				ok, err := confirmApply(app, out, "Overwrite target dates with finish dates?")
				if err != nil || !ok {
					return err
				}
			}

			resp, err := app.Sync.SyncTargets(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatSync(resp))

			if output != "" {
				now := app.now()
				if err := report.WriteFile(output, func(w io.Writer) error {
					return report.DateUpdates(w, resp, now)
				}); err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.Dim("Report written to "+output))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Write the target dates to the tracker")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write a markdown date update report to this path")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not save the run in the history store")

	return cmd
}
