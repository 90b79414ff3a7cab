package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/umlkit/goxmi"
	"github.com/umlkit/goxmi/cmd/internal/cliutil"
	"github.com/umlkit/goxmi/internal/watch"
)

func (c *cli) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch FILE...",
		Short: "Reload files whenever they change",
		Long: `Watch loads each file, prints its summary and diagnostics, and does
so again every time the file is saved. Unchanged content is served
from an in-memory cache.`,
		Example: `  goxmi watch model.xmi`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := goxmi.NewCache(c.v.GetInt(keyCacheSize))
			if err != nil {
				return err
			}
			opts, err := c.loadOptions()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			styles := cliutil.NewStyles(out)
			report := func(path string) {
				doc, err := cache.Load(cmd.Context(), path, opts...)
				if doc == nil {
					cliutil.PrintError(cmd.ErrOrStderr(), "failed to load %s: %v", path, err)
					return
				}
				s := doc.Stats()
				fmt.Fprintf(out, "%s: %s, %d classes, %d associations, %d diagnostics\n",
					path, doc.Name, s.Classes+s.DataTypes, s.Associations, len(doc.Diagnostics))
				printDiagnostics(out, styles, doc.Diagnostics)
			}

			for _, path := range args {
				report(path)
			}

			w, err := watch.New(args, watch.WithLogger(c.setupLogger()))
			if err != nil {
				return err
			}
			defer w.Close()
			return w.Run(cmd.Context(), report)
		},
	}
	return cmd
}
