package main

import (
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/lusinstrella/karl-dukstein-photography/internal/catalog"
	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/fileutil"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
)

type inspectView struct {
	Category string         `json:"category" yaml:"category"`
	Label    string         `json:"label" yaml:"label"`
	Items    []catalog.Item `json:"items" yaml:"items"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect <category>",
		Short: "Show the reconciled catalog of one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			return ctx.withRuntime(func(cfg *config.Config, _ *slog.Logger) error {
				var label string
				switch idx := slices.IndexFunc(cfg.Categories, func(c config.Category) bool { return c.Key == key }); {
				case idx >= 0:
					label = cfg.Categories[idx].Label
				case fileutil.IsDir(cfg.CategoryDir(key)):
					label = config.TitleFromKey(key)
				default:
					return services.Wrap(services.ErrNotFound, "inspect", "category", "unknown category: "+key, nil)
				}

				items, err := catalog.ReconcileDir(cmd.Context(), key, cfg.CategoryDir(key))
				if err != nil {
					return err
				}
				if items == nil {
					items = []catalog.Item{}
				}
				view := inspectView{Category: key, Label: label, Items: items}
				if asJSON {
					return writeJSON(cmd, view)
				}
				return writeYAML(cmd, view)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON instead of YAML")
	return cmd
}
