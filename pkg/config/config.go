// Package config loads Stowage configuration files.
//
// Files are TOML (.toml) or YAML (.yaml, .yml), chosen by extension. Every
// section is optional; omitted values keep their defaults. A minimal file:
//
//	[scene]
//	length = 12.19
//	num_items = 40
//
//	[render]
//	formats = ["html", "xlsx"]
//
// When no path is given, STOWAGE_CONFIG names the file. Server, cache and
// store endpoints fall back to STOWAGE_ADDR, STOWAGE_REDIS_URL and
// STOWAGE_MONGO_URI when the file leaves them empty.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/render/projection"
	"github.com/matzehuels/stowage/pkg/scene"
)

// Environment variables.
const (
	EnvConfig   = "STOWAGE_CONFIG"
	EnvAddr     = "STOWAGE_ADDR"
	EnvRedisURL = "STOWAGE_REDIS_URL"
	EnvMongoURI = "STOWAGE_MONGO_URI"
)

// Defaults.
const (
	DefaultAddr           = ":8080"
	DefaultMaxItems       = 10000
	DefaultRequestTimeout = time.Minute
)

// Backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Config is the root configuration.
type Config struct {
	Scene  scene.Params `toml:"scene" yaml:"scene"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Server ServerConfig `toml:"server" yaml:"server"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Store  StoreConfig  `toml:"store" yaml:"store"`

	// Path is the file the config was read from, if any.
	Path string `toml:"-" yaml:"-"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Formats    []string `toml:"formats" yaml:"formats"`
	View       string   `toml:"view" yaml:"view"`
	Width      float64  `toml:"width" yaml:"width"`
	Height     float64  `toml:"height" yaml:"height"`
	MeshCells  int      `toml:"mesh_cells" yaml:"mesh_cells"`
	FloorSlab  bool     `toml:"floor_slab" yaml:"floor_slab"`
	Labels     bool     `toml:"labels" yaml:"labels"`
	Background string   `toml:"background" yaml:"background"`
	Output     string   `toml:"output" yaml:"output"` // output path stem
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
	// MaxItems caps num_items per request.
	MaxItems int `toml:"max_items" yaml:"max_items"`
	// RequestTimeout bounds each request, e.g. "30s".
	RequestTimeout time.Duration `toml:"request_timeout" yaml:"request_timeout"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend" yaml:"backend"` // file, redis or none
	Dir      string `toml:"dir" yaml:"dir"`
	RedisURL string `toml:"redis_url" yaml:"redis_url"`
	Prefix   string `toml:"prefix" yaml:"prefix"`
}

// StoreConfig selects the preset store backend.
type StoreConfig struct {
	Backend  string `toml:"backend" yaml:"backend"` // memory, file or mongo
	Dir      string `toml:"dir" yaml:"dir"`
	MongoURI string `toml:"mongo_uri" yaml:"mongo_uri"`
	Database string `toml:"database" yaml:"database"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Scene: scene.DefaultParams(),
		Cache: CacheConfig{Backend: CacheFile},
		Store: StoreConfig{Backend: StoreFile},
	}
}

// Load reads the file at path, or the file named by STOWAGE_CONFIG when
// path is empty. With neither, it returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		cfg := Default()
		cfg.finish()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Decode(data, filepath.Ext(path))
	if err != nil {
		if errors.GetCode(err) != "" {
			return Config{}, err
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Decode parses data in the format named by ext (".toml", ".yaml" or
// ".yml") on top of the defaults, applies environment fallbacks and
// validates the result.
func Decode(data []byte, ext string) (Config, error) {
	cfg := Default()

	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return Config{}, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"unsupported config extension %q (use .toml, .yaml or .yml)", ext)
	}

	cfg.finish()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// finish applies environment fallbacks and defaults for empty fields.
func (c *Config) finish() {
	c.Scene = c.Scene.WithColorDefaults()

	if c.Server.Addr == "" {
		c.Server.Addr = os.Getenv(EnvAddr)
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxItems == 0 {
		c.Server.MaxItems = DefaultMaxItems
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = DefaultRequestTimeout
	}

	if c.Cache.RedisURL == "" {
		c.Cache.RedisURL = os.Getenv(EnvRedisURL)
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}

	if c.Store.MongoURI == "" {
		c.Store.MongoURI = os.Getenv(EnvMongoURI)
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreFile
	}
}

// Validate checks backend names, frame settings and color syntax.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_url or %s", EnvRedisURL)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Store.Backend {
	case StoreMemory, StoreFile:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store backend mongo needs mongo_uri or %s", EnvMongoURI)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}

	if c.Render.View != "" {
		if _, err := projection.ParseView(c.Render.View); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.view")
		}
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render frame size must not be negative")
	}
	if c.Server.MaxItems < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_items must not be negative")
	}
	if c.Server.RequestTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.request_timeout must not be negative")
	}

	colors := [][2]string{
		{"scene.container_color", c.Scene.ContainerColor},
		{"scene.door_color", c.Scene.DoorColor},
		{"scene.floor_color", c.Scene.FloorColor},
		{"scene.item_color", c.Scene.ItemColor},
	}
	for _, fc := range colors {
		if err := errors.ValidateColor(fc[0], fc[1]); err != nil {
			return err
		}
	}
	return nil
}

// ReadParams reads only the scene section of a config file. The watch
// command uses it so that a broken [server] section does not block
// rebuilds.
func ReadParams(path string) (scene.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scene.Params{}, fmt.Errorf("read %s: %w", path, err)
	}

	var doc struct {
		Scene scene.Params `toml:"scene" yaml:"scene"`
	}
	doc.Scene = scene.DefaultParams()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err = toml.Decode(string(data), &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return scene.Params{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported config extension %q", filepath.Ext(path))
	}
	if err != nil {
		return scene.Params{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return doc.Scene.WithColorDefaults(), nil
}
