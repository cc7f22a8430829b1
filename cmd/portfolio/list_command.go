package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/inventory"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Count image files per folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(func(cfg *config.Config, _ *slog.Logger) error {
				inv, err := inventory.Count(cfg.Paths.ImagesDir)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, inv)
				}
				rows := make([][]string, 0, len(inv.Folders))
				for _, folder := range inv.Folders {
					rows = append(rows, []string{folder.Name, strconv.Itoa(folder.Count)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Folder", "Images"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
					[]string{"Total", strconv.Itoa(inv.Total)},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
