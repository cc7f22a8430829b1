package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/lusinstrella/karl-dukstein-photography/internal/build"
	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/logging"
	"github.com/lusinstrella/karl-dukstein-photography/internal/preview"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
	"github.com/lusinstrella/karl-dukstein-photography/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var serve bool
	var addr string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the manifest and pages whenever category folders change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(func(cfg *config.Config, logger *slog.Logger) error {
				runCtx, cancel := context.WithCancel(cmd.Context())
				defer cancel()

				opts := build.Options{Logger: logger}
				if _, err := build.Rebuild(runCtx, cfg, opts); err != nil {
					return err
				}

				debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
				watcher, err := watch.New([]string{cfg.Paths.ImagesDir}, []string{cfg.Paths.OriginalsDir}, debounce, logger)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintln(out, renderStatusLine("Watch", outcomeNote, cfg.Paths.ImagesDir, colorize))

				serveErr := make(chan error, 1)
				if serve {
					server, err := preview.New(cfg.Paths.SiteDir, logger)
					if err != nil {
						return err
					}
					bind := previewAddr(cfg, addr)
					fmt.Fprintln(out, renderStatusLine("Preview", outcomeNote, "http://"+bind+"/", colorize))
					go func() {
						serveErr <- server.Run(runCtx, bind)
						cancel()
					}()
				}

				err = watcher.Run(runCtx, func(ctx context.Context, paths []string) error {
					_, err := build.Rebuild(ctx, cfg, opts)
					if errors.Is(err, services.ErrLocked) {
						logging.NewComponentLogger(logger, "watch").Info("rebuild skipped, another run holds the lock")
						return nil
					}
					return err
				})
				cancel()
				if serve {
					if sErr := <-serveErr; sErr != nil && err == nil {
						err = sErr
					}
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&serve, "serve", false, "Also run the preview server")
	cmd.Flags().StringVar(&addr, "addr", "", "Preview listen address (default preview.bind from config)")
	return cmd
}
