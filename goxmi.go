package goxmi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/umlkit/goxmi/internal/dialect"
	"github.com/umlkit/goxmi/internal/resolver"
	"github.com/umlkit/goxmi/internal/types"
	"github.com/umlkit/goxmi/uml"
)

var (
	// ErrNoSources is returned when Load is called without a source or the
	// source lists no documents.
	ErrNoSources = errors.New("no XMI sources provided")

	// ErrNoModel is returned when a document has no uml:Model element.
	ErrNoModel = resolver.ErrNoModel

	// ErrNoPackages is returned when the model has no packaged elements.
	ErrNoPackages = resolver.ErrNoPackages

	// ErrUnknownDialect is returned when WithDialect names no known dialect.
	ErrUnknownDialect = dialect.ErrUnknown

	// ErrDiagnostics is returned together with a document when a recorded
	// diagnostic reaches the configured FailAt severity.
	ErrDiagnostics = errors.New("diagnostics at or above failure threshold")
)

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (elements, links, connector ends).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// Dialect names accepted by WithDialect.
const (
	DialectLegacy  = dialect.NameLegacy
	DialectXMI2013 = dialect.NameXMI2013
)

// Dialects returns the names of all known dialects.
func Dialects() []string {
	return dialect.Names()
}

// LoadOption configures Load, LoadFile, LoadBytes and LoadAll.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger      *slog.Logger
	dialect     string
	diagConfig  uml.DiagnosticConfig
	noHeuristic bool
}

func newLoadConfig(opts []LoadOption) loadConfig {
	cfg := loadConfig{diagConfig: uml.DefaultConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) { c.logger = logger }
}

// WithDialect forces the export generation instead of detecting it.
// An empty name restores detection.
func WithDialect(name string) LoadOption {
	return func(c *loadConfig) { c.dialect = name }
}

// WithDiagnosticConfig sets diagnostic filtering and the failure threshold.
func WithDiagnosticConfig(cfg uml.DiagnosticConfig) LoadOption {
	return func(c *loadConfig) { c.diagConfig = cfg }
}

// WithNoHeuristic makes LoadAll try every listed file, even those that do
// not look like XMI.
func WithNoHeuristic() LoadOption {
	return func(c *loadConfig) { c.noHeuristic = true }
}

// logEnabled returns true if logging is enabled at the given level.
func logEnabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}
