// Package commands holds the pygen subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/syssam/pygen/compiler/gen"
	"github.com/syssam/pygen/compiler/load"
	"github.com/syssam/pygen/internal/cli/config"
)

// ErrNoInputs is returned when a command runs without data model files.
var ErrNoInputs = errors.New("no input files: use --input or set inputs in pygen.yaml")

// configKey is used to store config in context.
type configKey struct{}

// WithConfig returns a context carrying cfg.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext reads the config and logger the root command stored in
// the command context. A command run on its own gets the defaults.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		var err error
		if cfg, err = config.Load("", nil); err != nil {
			return nil, err
		}
	}
	return &CommandContext{Cfg: cfg, Logger: config.GetLogger(ctx)}, nil
}

// Build loads the configured inputs and resolves them into a graph.
func (c *CommandContext) Build() (*gen.Graph, error) {
	if len(c.Cfg.Inputs) == 0 {
		return nil, ErrNoInputs
	}
	models, err := load.LoadAll(c.Cfg.Inputs, c.Cfg.Model.ID())
	if err != nil {
		return nil, err
	}
	genCfg, err := c.Cfg.GenConfig(c.Logger)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	c.Logger.Debug("building graph",
		slog.Int("inputs", len(c.Cfg.Inputs)),
		slog.Int("models", len(models)),
	)
	return gen.NewGraph(genCfg, models...)
}
