// Package cache stores graph snapshots so a failed or unavailable data
// source can be recovered by replaying the last known-good graph as a
// replace-mode load. It is a best-effort byte cache, not a persistence
// layer: losing an entry only costs a slower cold reload.
//
// Backends: file (default for the CLI), redis (shared deployments), and
// null (caching disabled).
package cache

import (
	"context"
	"time"
)

// TTLSnapshot is how long a stored graph snapshot stays replayable.
// Snapshots only back the reload fallback, so a short horizon is fine.
const TTLSnapshot = 24 * time.Hour

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive TTL stores without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys. Implementations can add prefixes for
// multi-graph or multi-tenant isolation.
type Keyer interface {
	// SnapshotKey returns the key for the full-graph snapshot of the named
	// graph surface.
	SnapshotKey(graphID string) string
}

// DefaultKeyer is the plain single-tenant key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SnapshotKey generates a key for a graph snapshot.
func (DefaultKeyer) SnapshotKey(graphID string) string {
	return hashKey("snapshot", graphID)
}

// ScopedKeyer wraps a Keyer with a prefix so independent graph surfaces
// (or tenants) get separate namespaces in a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SnapshotKey generates a prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(graphID string) string {
	return k.prefix + k.inner.SnapshotKey(graphID)
}
