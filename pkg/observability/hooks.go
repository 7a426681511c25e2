// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about remote calls made to the ERP.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the transport never
// imports a logging or metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRPCHooks(&myRPCHooks{})
//	    // ... run application
//	}
//
// Transports call hooks around every remote call:
//
//	observability.RPC().OnCall(ctx, call)
//	// ... do the call ...
//	observability.RPC().OnResult(ctx, call, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// RPC Hooks
// =============================================================================

// Call identifies one remote procedure call.
type Call struct {
	Protocol string // Wire protocol ("xmlrpc" or "jsonrpc")
	Endpoint string // Full endpoint URL
	Service  string // Remote service ("common", "object")
	Method   string // Remote method ("authenticate", "execute_kw", ...)
}

// RPCHooks receives events from the ERP transport.
type RPCHooks interface {
	// OnCall records an outgoing call before it is sent.
	OnCall(ctx context.Context, call Call)

	// OnResult records the outcome of a call. err is nil on success.
	OnResult(ctx context.Context, call Call, duration time.Duration, err error)
}

// NoopRPCHooks is a no-op implementation of RPCHooks.
type NoopRPCHooks struct{}

func (NoopRPCHooks) OnCall(context.Context, Call)                        {}
func (NoopRPCHooks) OnResult(context.Context, Call, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	rpcHooks RPCHooks = NoopRPCHooks{}
	hooksMu  sync.RWMutex
)

// SetRPCHooks registers custom RPC hooks.
// This should be called once at application startup before any remote calls.
// A nil h is ignored.
func SetRPCHooks(h RPCHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		rpcHooks = h
	}
}

// RPC returns the registered RPC hooks.
func RPC() RPCHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return rpcHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	rpcHooks = NoopRPCHooks{}
}
