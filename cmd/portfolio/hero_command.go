package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lusinstrella/karl-dukstein-photography/internal/build"
	"github.com/lusinstrella/karl-dukstein-photography/internal/catalog"
	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/hero"
	"github.com/lusinstrella/karl-dukstein-photography/internal/logging"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
)

func newHeroCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "hero <category> <id>",
		Short: "Pin the hero image of a category",
		Long: "Replace the category's hero.txt with the given item id.\n" +
			"Regenerate the manifest afterwards with `portfolio manifest`.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, id := args[0], args[1]
			return ctx.withRuntime(func(cfg *config.Config, logger *slog.Logger) error {
				if !cfg.HasCategory(category) {
					return services.Wrap(services.ErrValidation, "hero", "set",
						fmt.Sprintf("%q is not a configured category (have %s)", category, strings.Join(cfg.CategoryKeys(), ", ")), nil)
				}
				path, err := hero.Set(cfg.Paths.ImagesDir, category, id)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintln(out, renderStatusLine("Hero", outcomeDone, fmt.Sprintf("wrote %s with %q", path, id), colorize))

				items, err := catalog.ReconcileDir(cmd.Context(), category, cfg.CategoryDir(category))
				if err != nil {
					return err
				}
				known := false
				for _, item := range items {
					if item.ID == id {
						known = true
						break
					}
				}
				if !known {
					logging.WarnWithContext(logging.NewComponentLogger(logger, "hero"), "hero id has no thumbnail", "hero_unknown_id",
						logging.String(logging.FieldCategory, category),
						logging.String("id", id),
						logging.String(logging.FieldErrorHint, "check the id with `portfolio inspect "+category+"`"),
						logging.String(logging.FieldImpact, "the id is ignored until a thumbnail exists"),
					)
					fmt.Fprintln(out, renderStatusLine("Hero", outcomeMissing, id+" is not in the catalog yet", colorize))
				}
				fmt.Fprintln(out, renderStatusLine("Next", outcomeNote, "run `portfolio "+build.StageManifest+"` to apply", colorize))
				return nil
			})
		},
	}
}
