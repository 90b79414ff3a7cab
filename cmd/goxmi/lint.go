package main

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/umlkit/goxmi"
	"github.com/umlkit/goxmi/cmd/internal/cliutil"
	"github.com/umlkit/goxmi/uml"
)

// lintResult is the JSON shape of a lint run.
type lintResult struct {
	Files       []lintFile     `json:"files"`
	Summary     map[string]int `json:"summary"`
	Total       int            `json:"total"`
	FailedFiles int            `json:"failed_files,omitempty"`
}

type lintFile struct {
	Path        string           `json:"path"`
	Diagnostics []uml.Diagnostic `json:"diagnostics"`
	Error       string           `json:"error,omitempty"`
}

func (c *cli) newLintCmd() *cobra.Command {
	var (
		format  string
		failOn  string
		summary bool
		quiet   bool
		ignore  []string
	)
	cmd := &cobra.Command{
		Use:   "lint FILE...",
		Short: "Check documents for issues",
		Long: `Lint loads each file and reports its load diagnostics together with
checks that need the whole model, such as generalization cycles.

Exits 2 when any diagnostic is at or above the --fail-on severity.`,
		Example: `  goxmi lint model.xmi
  goxmi lint --strictness strict --fail-on warning model.xmi
  goxmi lint --ignore 'connector-*' --format json model.xmi`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := uml.ParseSeverity(failOn)
			if err != nil {
				return err
			}
			cfg, err := c.diagConfig()
			if err != nil {
				return err
			}
			cfg.Ignore = append(cfg.Ignore, ignore...)
			// Lint reports instead of failing the load.
			cfg.FailAt = -1

			result := c.lint(cmd, args, cfg)

			if !quiet {
				out := cmd.OutOrStdout()
				switch {
				case format == formatJSON:
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					if err := enc.Encode(result); err != nil {
						return err
					}
				case summary:
					printLintSummary(out, result)
				default:
					printLintText(out, cliutil.NewStyles(out), result)
				}
			}

			if result.FailedFiles > 0 {
				return &exitCodeError{code: exitError}
			}
			for _, f := range result.Files {
				for _, d := range f.Diagnostics {
					if d.Severity <= threshold {
						return &exitCodeError{code: exitIssues}
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json")
	cmd.Flags().StringVar(&failOn, "fail-on", "error", "exit 2 if any diagnostic is at or above this severity")
	cmd.Flags().BoolVar(&summary, "summary", false, "show counts by severity only")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "no output, exit code only")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "ignore diagnostic codes (globs like 'connector-*')")
	return cmd
}

func (c *cli) lint(cmd *cobra.Command, paths []string, cfg uml.DiagnosticConfig) lintResult {
	result := lintResult{Summary: make(map[string]int)}
	opts := []goxmi.LoadOption{goxmi.WithDiagnosticConfig(cfg), goxmi.WithDialect(c.v.GetString(keyDialect))}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, goxmi.WithLogger(logger))
	}

	for _, path := range paths {
		f := lintFile{Path: path, Diagnostics: []uml.Diagnostic{}}
		doc, err := goxmi.LoadFile(cmd.Context(), path, opts...)
		if doc == nil {
			f.Error = err.Error()
			result.FailedFiles++
			result.Files = append(result.Files, f)
			continue
		}
		if err != nil && !errors.Is(err, goxmi.ErrDiagnostics) {
			f.Error = err.Error()
		}
		f.Diagnostics = append(f.Diagnostics, doc.Diagnostics...)
		f.Diagnostics = append(f.Diagnostics, goxmi.Lint(doc, cfg)...)
		slices.SortStableFunc(f.Diagnostics, func(a, b uml.Diagnostic) int {
			return cmp.Compare(a.Severity, b.Severity)
		})
		for _, d := range f.Diagnostics {
			result.Summary[d.Severity.String()]++
			result.Total++
		}
		result.Files = append(result.Files, f)
	}
	return result
}

func printLintText(w io.Writer, styles cliutil.Styles, r lintResult) {
	for _, f := range r.Files {
		if f.Error != "" {
			fmt.Fprintf(w, "%s: %s\n", f.Path, f.Error)
		}
		for _, d := range f.Diagnostics {
			fmt.Fprintf(w, "%s: %s\n", f.Path, styles.FormatDiagnostic(d))
		}
	}
	if r.Total == 0 {
		fmt.Fprintf(w, "No issues found in %d files\n", len(r.Files))
		return
	}
	fmt.Fprintln(w)
	printLintSummary(w, r)
}

func printLintSummary(w io.Writer, r lintResult) {
	fmt.Fprintf(w, "Checked %d files, found %d issues\n", len(r.Files), r.Total)
	for sev := uml.SeverityFatal; sev <= uml.SeverityInfo; sev++ {
		if n := r.Summary[sev.String()]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", sev.String()+":", n)
		}
	}
}
