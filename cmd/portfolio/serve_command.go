package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/preview"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated site locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(func(cfg *config.Config, logger *slog.Logger) error {
				server, err := preview.New(cfg.Paths.SiteDir, logger)
				if err != nil {
					return err
				}
				bind := previewAddr(cfg, addr)
				fmt.Fprintln(cmd.OutOrStdout(), renderStatusLine("Preview", outcomeNote, "http://"+bind+"/", shouldColorize(cmd.OutOrStdout())))
				return server.Run(cmd.Context(), bind)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default preview.bind from config)")
	return cmd
}

func previewAddr(cfg *config.Config, flag string) string {
	if addr := strings.TrimSpace(flag); addr != "" {
		return addr
	}
	return cfg.Preview.Bind
}
