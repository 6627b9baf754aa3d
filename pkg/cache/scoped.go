package cache

import "github.com/matzehuels/stowage/pkg/scene"

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several servers share one Redis database.
//
// Example usage:
//
//	// Keys for the staging deployment
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SceneKey generates a prefixed key for scene caching.
func (k *ScopedKeyer) SceneKey(p scene.Params) string {
	return k.prefix + k.inner.SceneKey(p)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
