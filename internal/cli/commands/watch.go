package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// DefaultDebounce is how long the watcher waits for more changes before it
// regenerates.
const DefaultDebounce = 100 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the manifest when data model files change",
		Long: `Generate once, then watch the input files and regenerate whenever one of
them changes. Failed rebuilds are logged and the previous manifest is kept.`,
		Example: `  pygen watch -i model.yaml -o out`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			debounce, _ := cmd.Flags().GetDuration("debounce")
			w, err := NewWatcher(cmdCtx, cmd.OutOrStdout(), version, debounce)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return w.Run(ctx)
		},
	}
	cmd.Flags().Duration("debounce", DefaultDebounce, "delay before regenerating after a change")
	return cmd
}

// Watcher regenerates the manifest of its inputs on change.
type Watcher struct {
	cmdCtx   *CommandContext
	out      io.Writer
	version  string
	debounce time.Duration
	inputs   map[string]struct{}
	dirs     []string
}

// NewWatcher creates a watcher over the configured inputs.
func NewWatcher(c *CommandContext, out io.Writer, version string, debounce time.Duration) (*Watcher, error) {
	if len(c.Cfg.Inputs) == 0 {
		return nil, ErrNoInputs
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		cmdCtx:   c,
		out:      out,
		version:  version,
		debounce: debounce,
		inputs:   make(map[string]struct{}, len(c.Cfg.Inputs)),
	}
	seen := make(map[string]bool)
	for _, in := range c.Cfg.Inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", in, err)
		}
		w.inputs[abs] = struct{}{}
		// Editors often replace files, so the directory is watched.
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Run generates once and then on every change until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.cmdCtx.Logger
	if err := runGenerate(ctx, w.cmdCtx, w.out, w.version); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	logger.Info("watching for changes", slog.Any("dirs", w.dirs))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !w.watches(event.Name) {
				continue
			}
			logger.Debug("change detected", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := runGenerate(ctx, w.cmdCtx, w.out, w.version); err != nil {
				logger.Error("rebuild failed", slog.Any("error", err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) watches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	_, ok := w.inputs[abs]
	return ok
}
