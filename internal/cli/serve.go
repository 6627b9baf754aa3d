package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/observability/prom"
	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
		cacheKind string
		storeKind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and browser viewer",
		Long: `Run the HTTP API and browser viewer.

The server exposes the interactive viewer at /, the scene and render API
under /api, preset management under /api/presets and Prometheus metrics
at /metrics. Scene parameters not given in a request fall back to the
[scene] section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cacheKind != "" {
				cfg.Cache.Backend = cacheKind
			}
			if storeKind != "" {
				cfg.Store.Backend = storeKind
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			presets, err := openStore(ctx, cfg.Store)
			if err != nil {
				return fmt.Errorf("open preset store: %w", err)
			}
			defer presets.Close()

			srvCfg := server.Config{
				Runner:   runner,
				Store:    presets,
				Defaults: cfg.Scene,
				Render: pipeline.Options{
					View:       cfg.Render.View,
					Width:      cfg.Render.Width,
					Height:     cfg.Render.Height,
					MeshCells:  cfg.Render.MeshCells,
					FloorSlab:  cfg.Render.FloorSlab,
					Labels:     cfg.Render.Labels,
					Background: cfg.Render.Background,
				},
				MaxItems:       cfg.Server.MaxItems,
				RequestTimeout: cfg.Server.RequestTimeout,
				Logger:         c.Logger,
			}
			if !noMetrics {
				m := prom.New(appName)
				m.Register()
				srvCfg.Metrics = m.Handler()
			}

			c.Logger.Info("starting server",
				"addr", cfg.Server.Addr,
				"cache", cfg.Cache.Backend,
				"store", cfg.Store.Backend,
				"metrics", !noMetrics)
			printInfo("Viewer at %s", StyleLink.Render(viewerURL(cfg.Server.Addr)))

			return server.New(srvCfg).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config or $STOWAGE_ADDR, else :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")
	cmd.Flags().StringVar(&cacheKind, "cache", "", "cache backend: file, redis, none")
	cmd.Flags().StringVar(&storeKind, "store", "", "preset store backend: memory, file, mongo")

	return cmd
}

// viewerURL turns a listen address into a browsable URL.
func viewerURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr + "/"
	}
	return "http://" + addr + "/"
}
