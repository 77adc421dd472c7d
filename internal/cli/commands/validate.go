package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that data models resolve",
		Long: `Resolve the data models without writing anything. Warnings are printed,
fatal problems fail the command.`,
		Example: `  pygen validate -i model.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			g, err := cmdCtx.Build()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, w := range g.Warnings {
				_, _ = fmt.Fprintf(out, "warning: %s\n", w)
			}
			_, _ = fmt.Fprintf(out, "OK: %d data classes, %d API classes, %d warnings\n",
				len(g.DataClasses), len(g.APIClasses), len(g.Warnings))
			return nil
		},
	}
}
