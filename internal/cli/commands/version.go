package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the pygen version and the commit it was built from.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pygen v%s\n", version)
			if commit != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit %s\n", commit)
			}
			return nil
		},
	}
}
