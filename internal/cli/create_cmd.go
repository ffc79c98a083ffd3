package cli

import (
	"fmt"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/spf13/cobra"
)

func newCreateCmd(app *App) *cobra.Command {
	var backlog string
	var apply, noRecord bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create tracker items from a backlog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewCreateRequest(backlog)
			req.Apply = apply
			req.Record = !noRecord

			out := cmd.OutOrStdout()
			if apply {
				ok, err := confirmApply(app, out, fmt.Sprintf("Create tracker items from %s?", backlog))
				if err != nil || !ok {
					return err
				}
			}

			resp, err := app.Create.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatCreate(resp))
			return nil
		},
	}

	cmd.Flags().StringVarP(&backlog, "backlog", "b", "", "Backlog file (YAML or JSON rows)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Create the items instead of printing them")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not save the run in the history store")
	_ = cmd.MarkFlagRequired("backlog")

	return cmd
}
