// Package cliutil provides shared helpers for the goxmi command-line tool.
package cliutil

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/charmbracelet/lipgloss"

	"github.com/umlkit/goxmi/uml"
)

// GetOutput opens the output file, or returns fallback when outputFile is
// empty. The returned func closes whatever was opened.
func GetOutput(outputFile string, fallback io.Writer) (io.Writer, func(), error) {
	if outputFile == "" {
		return fallback, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// PrintError writes a formatted error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}

// Styles holds the terminal styles for one output stream. Styles render
// plain text when the stream is not a color terminal.
type Styles struct {
	Package  lipgloss.Style
	Class    lipgloss.Style
	DataType lipgloss.Style
	Enum     lipgloss.Style
	Muted    lipgloss.Style
	Branch   lipgloss.Style
	severity map[uml.Severity]lipgloss.Style
}

// NewStyles builds styles for w, detecting its color support.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	errStyle := r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	return Styles{
		Package:  r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Class:    r.NewStyle().Foreground(lipgloss.Color("10")),
		DataType: r.NewStyle().Foreground(lipgloss.Color("14")),
		Enum:     r.NewStyle().Foreground(lipgloss.Color("13")),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("240")),
		Branch:   r.NewStyle().Foreground(lipgloss.Color("240")),
		severity: map[uml.Severity]lipgloss.Style{
			uml.SeverityFatal:   errStyle,
			uml.SeveritySevere:  errStyle,
			uml.SeverityError:   errStyle,
			uml.SeverityMinor:   r.NewStyle().Foreground(lipgloss.Color("11")),
			uml.SeverityStyle:   r.NewStyle().Foreground(lipgloss.Color("11")),
			uml.SeverityWarning: r.NewStyle().Foreground(lipgloss.Color("11")),
			uml.SeverityInfo:    r.NewStyle().Foreground(lipgloss.Color("240")),
		},
	}
}

// Severity renders a severity name in its color.
func (s Styles) Severity(sev uml.Severity) string {
	if st, ok := s.severity[sev]; ok {
		return st.Render(sev.String())
	}
	return sev.String()
}

// FormatDiagnostic renders "severity: [code] id: message".
func (s Styles) FormatDiagnostic(d uml.Diagnostic) string {
	var b strings.Builder
	b.WriteString(s.Severity(d.Severity))
	b.WriteString(": ")
	if d.Code != "" {
		b.WriteString("[" + d.Code + "] ")
	}
	if d.XMIID != "" {
		b.WriteString(d.XMIID + ": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// Suggest returns up to limit candidates close to query, nearest first.
// Comparison ignores case; a candidate qualifies when its edit distance is
// at most a third of the query length, and never less than two.
func Suggest(query string, candidates []string, limit int) []string {
	q := strings.ToLower(query)
	maxDist := max(2, len(q)/3)

	type scored struct {
		name string
		dist int
	}
	var hits []scored
	seen := make(map[string]bool)
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		if d := levenshtein.Distance(q, strings.ToLower(c), nil); d <= maxDist {
			hits = append(hits, scored{c, d})
		}
	}
	slices.SortFunc(hits, func(a, b scored) int {
		return cmp.Or(cmp.Compare(a.dist, b.dist), cmp.Compare(a.name, b.name))
	})

	out := make([]string, 0, min(limit, len(hits)))
	for _, h := range hits {
		if len(out) == limit {
			break
		}
		out = append(out, h.name)
	}
	return out
}
