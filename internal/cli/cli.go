// Package cli implements the stowage command-line interface.
//
// # Commands
//
//   - build: Compute a container scene and write it in the requested formats
//   - render: Re-render a saved scene document
//   - serve: Run the HTTP API and browser viewer
//   - watch: Rebuild outputs whenever a config file changes
//   - edit: Adjust parameters in an interactive terminal form
//   - preset: Manage named parameter presets
//   - cache: Manage the local scene and artifact cache
//
// All commands support --verbose (-v) for debug-level logging and --config
// to read defaults from a TOML or YAML file.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stowage/pkg/buildinfo"
	"github.com/matzehuels/stowage/pkg/cache"
	"github.com/matzehuels/stowage/pkg/config"
	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stowage"

	// defaultOutput is the output path stem when neither flag nor config set one.
	defaultOutput = "scene"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stowage lays out cargo in a shipping container",
		Long: `Stowage computes a 3D wireframe scene of a shipping container with its
doors, floor grid and stacked cargo boxes, and publishes it as a browser
viewer, drawings, a printable solid, a spreadsheet manifest and more.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "",
		"config file (.toml, .yaml); defaults to $"+config.EnvConfig)

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.presetCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or the defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.CacheConfig, noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Prefix)
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}

	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// openStore opens the configured preset store.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	case config.StoreMongo:
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.MongoURI, Database: cfg.Database})
		if err != nil {
			return nil, err
		}
		return ms, nil
	default:
		fs, err := store.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stowage/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
