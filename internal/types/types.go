// Package types provides internal types shared across goxmi packages.
package types

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/umlkit/goxmi/uml"
)

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (elements, links, connector lookups).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = slog.Level(-8)

// ctx is a package-level context for logging.
var ctx = context.Background()

// Logger wraps slog.Logger with nil-safe helpers.
type Logger struct {
	L *slog.Logger
}

// Enabled returns true if logging is enabled at the given level.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.L != nil && l.L.Enabled(ctx, level)
}

// Log emits a log message if logging is enabled.
func (l *Logger) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if l.L != nil && l.L.Enabled(ctx, level) {
		l.L.LogAttrs(ctx, level, msg, attrs...)
	}
}

// TraceEnabled returns true if trace-level logging is enabled.
func (l *Logger) TraceEnabled() bool {
	return l.Enabled(LevelTrace)
}

// Trace emits a trace-level log.
func (l *Logger) Trace(msg string, attrs ...slog.Attr) {
	l.Log(LevelTrace, msg, attrs...)
}

// Component returns a child logger tagged with the component name, or nil
// when logging is disabled.
func Component(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

// Reporter records a diagnostic. A nil Reporter discards everything.
type Reporter func(d uml.Diagnostic)

// Report records a diagnostic built from the arguments.
func (r Reporter) Report(sev uml.Severity, code, xmiID, format string, args ...any) {
	if r == nil {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	r(uml.Diagnostic{Severity: sev, Code: code, Message: msg, XMIID: xmiID})
}
