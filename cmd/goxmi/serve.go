package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/umlkit/goxmi"
	"github.com/umlkit/goxmi/cmd/internal/cliutil"
	"github.com/umlkit/goxmi/internal/server"
	"github.com/umlkit/goxmi/internal/watch"
)

func (c *cli) newServeCmd() *cobra.Command {
	var watchFiles bool
	cmd := &cobra.Command{
		Use:   "serve FILE...",
		Short: "Serve documents over a read-only JSON API",
		Long: `Serve loads each file and exposes it under /v1/documents/{name}, where
name is the file name without its extension. With --watch, changed
files are reloaded and replaced in place.`,
		Example: `  goxmi serve model.xmi
  goxmi serve --addr 127.0.0.1:9000 --watch a.xmi b.xmi`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := c.setupLogger()
			srv := server.New(logger)

			cache, err := goxmi.NewCache(c.v.GetInt(keyCacheSize))
			if err != nil {
				return err
			}
			opts, err := c.loadOptions()
			if err != nil {
				return err
			}
			load := func(ctx context.Context, path string) error {
				doc, err := cache.Load(ctx, path, opts...)
				if doc == nil {
					return err
				}
				srv.Set(goxmi.DocumentName(path), doc)
				return nil
			}

			for _, path := range args {
				if err := load(cmd.Context(), path); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if watchFiles {
				w, err := watch.New(args, watch.WithLogger(logger))
				if err != nil {
					return err
				}
				defer w.Close()
				go func() {
					err := w.Run(ctx, func(path string) {
						if err := load(ctx, path); err != nil {
							cliutil.PrintError(cmd.ErrOrStderr(), "reload %s: %v", path, err)
						}
					})
					if err != nil && logger != nil {
						logger.Error("watch stopped", slog.Any("error", err))
					}
				}()
			}

			addr := c.v.GetString(keyServeAddr)
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d documents on %s\n", len(srv.IDs()), addr)
			return srv.Serve(ctx, addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&watchFiles, "watch", false, "reload files when they change")
	_ = c.v.BindPFlag(keyServeAddr, cmd.Flags().Lookup("addr"))
	return cmd
}
