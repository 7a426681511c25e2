// Package cli implements the posquery command-line interface.
//
// This package provides commands for searching the point-of-sale product
// catalog of an Odoo ERP server. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - search: Run one product search and print the results
//   - browse: Search and page through the results interactively
//   - demo: Run two fixed example searches against a placeholder server
//   - ping: Check that the server is reachable and the credentials work
//   - config: Locate or create the config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every remote call with its duration. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/posquery/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Found 3 products (212ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// rpcLogHooks logs remote calls at debug level.
type rpcLogHooks struct {
	logger *log.Logger
}

func (h *rpcLogHooks) OnCall(_ context.Context, call observability.Call) {
	h.logger.Debug("rpc call", "protocol", call.Protocol, "service", call.Service, "method", call.Method, "endpoint", call.Endpoint)
}

func (h *rpcLogHooks) OnResult(_ context.Context, call observability.Call, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("rpc failed", "method", call.Service+"."+call.Method, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("rpc done", "method", call.Service+"."+call.Method, "took", d.Round(time.Millisecond))
}
