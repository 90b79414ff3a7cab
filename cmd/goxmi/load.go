package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/umlkit/goxmi"
	"github.com/umlkit/goxmi/cmd/internal/cliutil"
	"github.com/umlkit/goxmi/uml"
)

func (c *cli) newLoadCmd() *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "load FILE...",
		Short: "Load XMI files and summarize them",
		Example: `  goxmi load model.xmi
  goxmi load -v model.xmi              # debug logging
  goxmi load --strictness strict a.xmi b.xmi
  goxmi load --stats model.xmi`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLoad(cmd, args, stats)
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "show detailed statistics")
	return cmd
}

func (c *cli) runLoad(cmd *cobra.Command, paths []string, stats bool) error {
	out := cmd.OutOrStdout()
	styles := cliutil.NewStyles(out)

	failed := 0
	for _, path := range paths {
		doc, err := c.loadFile(cmd, path)
		if doc == nil {
			cliutil.PrintError(cmd.ErrOrStderr(), "failed to load %s: %v", path, err)
			failed++
			continue
		}

		s := doc.Stats()
		fmt.Fprintf(out, "Loaded %s from %s (%s): %d packages, %d classes, %d data types, %d enums, %d associations\n",
			doc.Name, path, doc.Dialect, s.Packages, s.Classes, s.DataTypes, s.Enums, s.Associations)
		if stats {
			printDetailedStats(out, s, len(doc.Diagnostics))
		}
		printDiagnostics(out, styles, doc.Diagnostics)

		if errors.Is(err, goxmi.ErrDiagnostics) {
			cliutil.PrintError(cmd.ErrOrStderr(), "%v", err)
			failed++
		}
	}

	if failed > 0 {
		return &exitCodeError{code: exitError, err: fmt.Errorf("%d of %d files failed", failed, len(paths))}
	}
	return nil
}

func printDiagnostics(w io.Writer, styles cliutil.Styles, diags []uml.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintln(w, "Diagnostics:")
	for _, d := range diags {
		fmt.Fprintf(w, "  %s\n", styles.FormatDiagnostic(d))
	}
}

func printDetailedStats(w io.Writer, s uml.Stats, diagnostics int) {
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "  Packages:      %d\n", s.Packages)
	fmt.Fprintf(w, "  Classes:       %d\n", s.Classes)
	fmt.Fprintf(w, "  Data types:    %d\n", s.DataTypes)
	fmt.Fprintf(w, "  Enums:         %d\n", s.Enums)
	fmt.Fprintf(w, "  Attributes:    %d\n", s.Attributes)
	fmt.Fprintf(w, "  Associations:  %d\n", s.Associations)
	fmt.Fprintf(w, "  Operations:    %d\n", s.Operations)
	fmt.Fprintf(w, "  Diagrams:      %d\n", s.Diagrams)
	fmt.Fprintf(w, "  Diagnostics:   %d\n", diagnostics)
}
