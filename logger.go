package texblit

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discardHandler is a slog.Handler that drops every record. Enabled returns
// false so callers skip formatting entirely.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.Default())
}

// SetLogger configures the logger used for texblit diagnostics.
// By default texblit logs through slog.Default so that resource leaks and
// GPU errors are never silent. Pass nil to discard all output.
//
// Log levels used by texblit:
//   - [slog.LevelDebug]: texture loads, uploads and releases, frame stats
//   - [slog.LevelWarn]: cache consistency warnings, GPU state errors, leaks
//   - [slog.LevelError]: failed texture loads
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discardHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current texblit logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
