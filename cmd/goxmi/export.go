package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/umlkit/goxmi"
	"github.com/umlkit/goxmi/cmd/internal/cliutil"
	"github.com/umlkit/goxmi/internal/store/sqlite"
)

func (c *cli) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE...",
		Short: "Export documents into a SQLite database",
		Long: `Export loads each file and writes its packages, classes, attributes,
associations, enumerations, operations, diagrams and diagnostics into
a SQLite database. Re-exporting a file replaces its previous rows.`,
		Example: `  goxmi export --db model.db model.xmi
  GOXMI_EXPORT_PATH=all.db goxmi export a.xmi b.xmi`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.v.GetString(keyExportPath)
			store, err := sqlite.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			failed := 0
			for _, file := range args {
				doc, err := c.loadFile(cmd, file)
				if doc == nil || (err != nil && !errors.Is(err, goxmi.ErrDiagnostics)) {
					cliutil.PrintError(cmd.ErrOrStderr(), "failed to load %s: %v", file, err)
					failed++
					continue
				}
				id, err := store.Export(cmd.Context(), doc)
				if err != nil {
					cliutil.PrintError(cmd.ErrOrStderr(), "failed to export %s: %v", file, err)
					failed++
					continue
				}
				fmt.Fprintf(out, "Exported %s from %s to %s (document %d)\n", doc.Name, file, store.Path(), id)
			}
			if failed > 0 {
				return &exitCodeError{code: exitError, err: fmt.Errorf("%d of %d files failed", failed, len(args))}
			}
			return nil
		},
	}
	cmd.Flags().String("db", "goxmi.db", "SQLite database path")
	_ = c.v.BindPFlag(keyExportPath, cmd.Flags().Lookup("db"))
	return cmd
}
