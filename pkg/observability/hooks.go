// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about sessions and the scramble pipeline.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so library packages never
// import a backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSessionHooks(&myHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... shuffle ...
//	observability.Session().OnShuffle(ctx, id, tiles, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from a scramble session.
type SessionHooks interface {
	// OnLoad records an image being loaded; tiles is the resulting board length.
	OnLoad(ctx context.Context, sessionID string, width, height, tiles int)

	// OnShuffle records a shuffle or unscramble. A non-nil err means the board
	// was left unchanged.
	OnShuffle(ctx context.Context, sessionID string, tiles int, duration time.Duration, err error)

	// OnExport records an export attempt; size is the number of bytes written.
	OnExport(ctx context.Context, sessionID, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnLoad(context.Context, string, int, int, int)                       {}
func (NoopSessionHooks) OnShuffle(context.Context, string, int, time.Duration, error)        {}
func (NoopSessionHooks) OnExport(context.Context, string, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	sessionHooks SessionHooks = NoopSessionHooks{}
	hooksMu      sync.RWMutex
)

// SetSessionHooks registers custom session hooks.
// This should be called once at application startup before any session is created.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	sessionHooks = NoopSessionHooks{}
}
