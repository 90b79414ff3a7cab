package resolver

import (
	"fmt"
	"log/slog"

	"github.com/umlkit/goxmi/internal/dialect"
	"github.com/umlkit/goxmi/internal/dom"
	"github.com/umlkit/goxmi/internal/types"
	"github.com/umlkit/goxmi/uml"
)

// Context holds the indices and working state shared by all phases.
// Everything except the diagnostics list is read-only once the index
// phase has finished.
type Context struct {
	types.Logger

	Root    dom.Node
	Model   dom.Node
	Dialect dialect.Dialect

	// Index maps xmi:id to element name across the whole document.
	Index *Index

	// ownedByAssociation maps an association id to the owned attributes
	// that reference it, in document order.
	ownedByAssociation map[string][]dom.Node

	diagConfig  uml.DiagnosticConfig
	diagnostics []uml.Diagnostic
}

func newContext(root dom.Node, logger *slog.Logger, diagConfig uml.DiagnosticConfig) *Context {
	return &Context{
		Logger:             types.Logger{L: logger},
		Root:               root,
		ownedByAssociation: make(map[string][]dom.Node),
		diagConfig:         diagConfig,
	}
}

// Emit records a diagnostic, filtered by the config's severity and code
// rules. Overrides replace the recorded severity.
func (c *Context) Emit(code string, severity uml.Severity, xmiID string, format string, args ...any) {
	if !c.diagConfig.ShouldReport(code, severity) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	c.diagnostics = append(c.diagnostics, uml.Diagnostic{
		Severity: c.diagConfig.Severity(code, severity),
		Code:     code,
		Message:  msg,
		XMIID:    xmiID,
	})
}

// Reporter adapts Emit for collaborators that report finished diagnostics.
func (c *Context) Reporter() types.Reporter {
	return func(d uml.Diagnostic) {
		c.Emit(d.Code, d.Severity, d.XMIID, "%s", d.Message)
	}
}

// Diagnostics returns all diagnostics collected so far.
func (c *Context) Diagnostics() []uml.Diagnostic {
	return c.diagnostics
}

// DiagnosticConfig returns the active strictness and filtering configuration.
func (c *Context) DiagnosticConfig() uml.DiagnosticConfig {
	return c.diagConfig
}

// endpointName resolves an endpoint id to a display name: the identifier
// index first, then the model name recorded on a connector end.
func (c *Context) endpointName(id string, side dialect.Side) (string, bool) {
	if id == "" {
		return "", false
	}
	if name, ok := c.Index.Resolve(id); ok {
		return name, true
	}
	return c.Dialect.ConnectorEndName(side, id)
}
