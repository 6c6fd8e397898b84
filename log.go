package keyedsem

import (
	"log/slog"

	"github.com/giantswarm/keyedsem/internal/diag"
)

// Logger returns the logger keyedsem uses for its diagnostic-only events:
// currently a pool drop when a returned body finds the pool already at
// capacity. If no custom logger has been set via SetLogger, it returns a
// cached logger derived from slog.Default() with a "component" attribute.
// Safe to call from multiple goroutines.
//
// Nothing in keyedsem uses Logger for control flow.
//
// The logger lives in internal/diag rather than here so that internal
// packages (the pool) can log without importing this root package and
// creating an import cycle; Logger/SetLogger just forward to it.
func Logger() *slog.Logger {
	return diag.Logger()
}

// SetLogger replaces the logger used throughout keyedsem. If l is nil, the
// logger resets to the default: slog.Default() with a "component"
// attribute. Safe to call concurrently with other keyedsem operations.
func SetLogger(l *slog.Logger) {
	diag.SetLogger(l)
}
