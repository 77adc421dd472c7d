// Package cli provides the command-line interface for pygen.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/pygen/internal/cli/commands"
	"github.com/syssam/pygen/internal/cli/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pygen",
		Short: "pygen - Python SDK model generator",
		Long: `pygen derives the object model of a Python SDK from graph data models.

It reads data models written as YAML, JSON or GraphQL, resolves data classes,
fields, filter methods and API classes with unique Python names, and writes
a manifest that SDK templates render from.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := cfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if cfg.File != "" {
				logger.Debug("using config file", slog.String("path", cfg.File))
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = commands.WithConfig(ctx, cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./pygen.yaml)")
	flags.StringSliceP("input", "i", nil, "data model files (.yaml, .json, .graphql)")
	flags.StringP("output", "o", "", "output directory")
	flags.StringP("format", "f", "", "manifest format (json|yaml|msgpack)")
	flags.String("model", "", "external id of the data model GraphQL inputs define")
	flags.String("model-space", "", "space of the data model GraphQL inputs define")
	flags.String("model-version", "", "version of the data model GraphQL inputs define")
	flags.String("default-instance-space", "", "instance space of bare-string relation filters")
	flags.String("log-format", "", "log format (text|json)")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.BoolP("verbose", "v", false, "verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml", "msgpack"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit))
	rootCmd.AddCommand(commands.NewGenerateCommand(Version))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewWatchCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
