package goxmi

import (
	"github.com/umlkit/goxmi/internal/graph"
)

// Lint runs the checks that need the whole assembled document, such as
// generalization cycles, and returns their diagnostics filtered by cfg.
// The document is not modified.
func Lint(doc *Document, cfg DiagnosticConfig) []Diagnostic {
	var out []Diagnostic
	for _, d := range graph.FromDocument(doc).CycleDiagnostics() {
		report(&out, cfg, d.Code, d.Severity, d.XMIID, d.Message)
	}
	return out
}
