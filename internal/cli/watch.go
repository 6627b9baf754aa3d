package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/config"
	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/scene"
	"github.com/matzehuels/stowage/pkg/watcher"
)

// watchCommand creates the watch command that rebuilds outputs on change.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		of       outputFlags
		noCache  bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [config.toml]",
		Short: "Rebuild outputs whenever a config file changes",
		Long: `Rebuild outputs whenever a config file changes.

The [scene] section of the watched file is reread on every save. Each
change rebuilds every category of the scene and rewrites all outputs.
A save that fails to parse is logged and the previous outputs are kept.

Output settings come from --config (not the watched file) and flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := of.options(cmd.Flags(), cfg.Render)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			ws, err := newWatchSession(args[0], runner, opts, of.outputBase(cfg.Render, defaultOutput), c.Logger)
			if err != nil {
				return err
			}
			if err := ws.write(ctx); err != nil {
				return err
			}

			printInfo("Watching %s (ctrl+c to stop)", args[0])
			return watcher.Watch(ctx, args[0], func() { ws.update(ctx) }, watcher.Options{
				Debounce: debounce,
				Logger:   c.Logger,
			})
		},
	}

	of.register(cmd.Flags())
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "quiet period before rebuilding")

	return cmd
}

// watchSession owns the stage rebuilt on every change. update is only
// called from the debouncer, one call at a time.
type watchSession struct {
	path   string
	runner *pipeline.Runner
	opts   pipeline.Options
	base   string
	logger *log.Logger
	stage  *scene.Stage
}

func newWatchSession(path string, runner *pipeline.Runner, opts pipeline.Options, base string, logger *log.Logger) (*watchSession, error) {
	p, err := config.ReadParams(path)
	if err != nil {
		return nil, err
	}
	return &watchSession{
		path:   path,
		runner: runner,
		opts:   opts,
		base:   base,
		logger: logger,
		stage:  scene.NewStage(p, opts.Aspect()),
	}, nil
}

// update rereads the params, rebuilds the stage and rewrites the outputs.
func (w *watchSession) update(ctx context.Context) {
	prog := newProgress(w.logger)
	p, err := config.ReadParams(w.path)
	if err != nil {
		w.logger.Warn("keeping previous outputs", "error", err)
		return
	}
	w.stage.Rebuild(p)
	if err := w.write(ctx); err != nil {
		w.logger.Error("rebuild failed", "error", err)
		return
	}
	prog.done("rebuilt", "items", p.NumItems, "renders", w.stage.Renders())
}

// write renders the current stage snapshot and writes every output.
func (w *watchSession) write(ctx context.Context) error {
	artifacts, err := w.runner.Render(ctx, w.stage.Snapshot(), w.opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	written, err := writeArtifacts(artifacts, w.opts.Formats, w.base)
	if err != nil {
		return err
	}
	for _, path := range written {
		w.logger.Debug("wrote", "path", path)
	}
	return nil
}
