package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/config"
	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/scene"
	"github.com/matzehuels/stowage/pkg/store"
)

// buildCommand creates the build command that computes a scene and writes
// its artifacts.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		sf      sceneFlags
		of      outputFlags
		noCache bool
		preset  string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compute a container scene and write it in the requested formats",
		Long: `Compute a container scene and write it in the requested formats.

Parameters start from the config file (or the built-in 20ft container),
then the named preset, then any flags given on the command line.

Outputs are written next to the --output stem with one extension per
format, e.g. "-o cargo -f html,xlsx" writes cargo.html and cargo.xlsx.`,
		Example: `  stowage build -f html
  stowage build --length 12.19 -n 40 -f svg,png --view top -o out/cargo
  stowage build --preset reefer -f stl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			base := cfg.Scene
			if preset != "" {
				if base, err = c.presetParams(cmd.Context(), cfg.Store, preset); err != nil {
					return err
				}
			}

			opts := of.options(cmd.Flags(), cfg.Render)
			opts.Params = sf.apply(cmd.Flags(), base)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runBuild(cmd.Context(), runner, opts, of.outputBase(cfg.Render, defaultOutput))
		},
	}

	sf.register(cmd.Flags())
	of.register(cmd.Flags())
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a saved preset (id or name)")

	return cmd
}

// runBuild executes the pipeline and writes the outputs.
func (c *CLI) runBuild(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, base string) error {
	spinner := newSpinner(ctx, "Building scene...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	written, err := writeArtifacts(result.Artifacts, opts.Formats, base)
	if err != nil {
		return err
	}

	printSuccess("Scene built")
	for _, path := range written {
		printFile(path)
	}
	printStats(result.Stats.ItemCount, result.Stats.ColumnCount, result.CacheInfo.BuildHit && result.CacheInfo.RenderHit)
	printNewline()
	printReport(result.Scene.Params, result.Report)

	if path, ok := outputPaths(base, opts.Formats)[pipeline.FormatJSON]; ok {
		printNewline()
		printNextStep("Re-render", appName+" render "+path+" -f svg")
	}
	return nil
}

// presetParams loads a preset's parameters from the configured store.
func (c *CLI) presetParams(ctx context.Context, cfg config.StoreConfig, ref string) (scene.Params, error) {
	s, err := openStore(ctx, cfg)
	if err != nil {
		return scene.Params{}, fmt.Errorf("open preset store: %w", err)
	}
	defer s.Close()

	p, err := store.Lookup(ctx, s, ref)
	if err != nil {
		return scene.Params{}, presetError(ref, err)
	}
	c.Logger.Debug("using preset", "id", p.ID, "name", p.Name)
	return p.Params, nil
}
