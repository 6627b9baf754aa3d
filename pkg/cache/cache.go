// Package cache stores built scenes and rendered artifacts.
//
// # Overview
//
// Scenes are pure functions of their parameters, so a build can be keyed
// by a hash of the parameters and a render by the scene hash plus the
// render options. Three backends implement [Cache]:
//
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: JSON entries under the user cache dir (CLI default)
//   - [RedisCache]: shared cache for the HTTP server
//
// # Keys
//
// A [Keyer] derives keys. [NewDefaultKeyer] hashes its inputs with
// SHA-256; [NewScopedKeyer] prefixes another keyer's keys so several
// deployments can share one Redis database.
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.SceneKey(params)
//	data, ok, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/stowage/pkg/scene"
)

// Default entry lifetimes.
const (
	TTLScene    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Key kinds, used as hook labels.
const (
	KindScene    = "scene"
	KindArtifact = "artifact"
)

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the value and whether it was found. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts identifies one rendered output of a scene.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	View       string  `json:"view,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	MeshCells  int     `json:"mesh_cells,omitempty"`
	FloorSlab  bool    `json:"floor_slab,omitempty"`
	Labels     bool    `json:"labels,omitempty"`
	Background string  `json:"background,omitempty"`
	Title      string  `json:"title,omitempty"`
	APIBase    string  `json:"api_base,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// SceneKey identifies the scene built from p.
	SceneKey(p scene.Params) string

	// ArtifactKey identifies a rendering of the scene with the given hash.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SceneKey returns "scene:<sha256(params)>".
func (DefaultKeyer) SceneKey(p scene.Params) string {
	return hashKey(KindScene, p)
}

// ArtifactKey returns "artifact:<sha256(sceneHash, opts)>".
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, sceneHash, opts)
}
