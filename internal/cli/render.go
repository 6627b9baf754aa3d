package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/scene"
)

// renderCommand creates the render command that re-renders a saved scene.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		of      outputFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [scene.json]",
		Short: "Render a saved scene document",
		Long: `Render a saved scene document.

The render command takes a scene.json file (produced by 'build -f json')
and renders it to the requested formats (svg by default) without
recomputing the layout. The camera aspect follows the --width and
--height frame.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := of.options(cmd.Flags(), cfg.Render)
			if !cmd.Flags().Changed("format") && len(cfg.Render.Formats) == 0 {
				opts.Formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runRender(cmd.Context(), runner, args[0], opts, of.outputBase(cfg.Render, stem(args[0])))
		},
	}

	of.register(cmd.Flags())
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the scene document and renders it.
func (c *CLI) runRender(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options, base string) error {
	doc, err := scene.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}
	s := doc.Scene
	s.Camera = scene.NewCamera(opts.Aspect())

	paths := outputPaths(base, opts.Formats)
	for _, path := range paths {
		if sameFile(path, input) {
			return fmt.Errorf("output %s would overwrite the input; pass --output", path)
		}
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %d formats...", len(opts.Formats)))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, s, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	written, err := writeArtifacts(artifacts, opts.Formats, base)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", input)
	for _, path := range written {
		printFile(path)
	}
	printStats(len(s.Items), len(s.Columns()), cacheHit)
	return nil
}

func sameFile(a, b string) bool {
	pa, errA := filepath.Abs(a)
	pb, errB := filepath.Abs(b)
	return errA == nil && errB == nil && pa == pb
}
