// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about synchronization runs, wave
// staging, animation, and snapshot cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSyncHooks(&mySyncHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Sync().OnMergeStart(ctx, mode, batchNodes)
//	// ... merge ...
//	observability.Sync().OnMergeComplete(ctx, mode, added, total, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Sync Hooks
// =============================================================================

// SyncHooks receives events from the graph synchronization pipeline.
type SyncHooks interface {
	// Normalization events
	OnNormalizeStart(ctx context.Context, rawNodes, rawEdges int)
	OnNormalizeComplete(ctx context.Context, rawNodes, rawEdges int, duration time.Duration, err error)

	// Merge events
	OnMergeStart(ctx context.Context, mode string, batchNodes int)
	OnMergeComplete(ctx context.Context, mode string, nodesAdded, totalNodes int, duration time.Duration)

	// Wave staging events
	OnWavePlanned(ctx context.Context, waves, nodes int)
	OnWaveRevealed(ctx context.Context, wave, nodes int)

	// Animation events
	OnAnimationStart(ctx context.Context, nodes int, animated bool)
	OnAnimationSettled(ctx context.Context, nodes int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from snapshot cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSyncHooks is a no-op implementation of SyncHooks.
type NoopSyncHooks struct{}

func (NoopSyncHooks) OnNormalizeStart(context.Context, int, int) {}
func (NoopSyncHooks) OnNormalizeComplete(context.Context, int, int, time.Duration, error) {
}
func (NoopSyncHooks) OnMergeStart(context.Context, string, int)                        {}
func (NoopSyncHooks) OnMergeComplete(context.Context, string, int, int, time.Duration) {}
func (NoopSyncHooks) OnWavePlanned(context.Context, int, int)                          {}
func (NoopSyncHooks) OnWaveRevealed(context.Context, int, int)                         {}
func (NoopSyncHooks) OnAnimationStart(context.Context, int, bool)                      {}
func (NoopSyncHooks) OnAnimationSettled(context.Context, int, time.Duration)           {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	syncHooks  SyncHooks  = NoopSyncHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetSyncHooks registers custom synchronization hooks.
// This should be called once at application startup before any loads.
func SetSyncHooks(h SyncHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		syncHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Sync returns the registered synchronization hooks.
func Sync() SyncHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return syncHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	syncHooks = NoopSyncHooks{}
	cacheHooks = NoopCacheHooks{}
}
