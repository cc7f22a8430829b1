package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lusinstrella/karl-dukstein-photography/internal/batch"
	"github.com/lusinstrella/karl-dukstein-photography/internal/build"
	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
)

func newStageCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newCodecStageCommand(ctx, "psd", "Export Photoshop documents in the originals tree as JPEG", build.ConvertPSDs),
		newCodecStageCommand(ctx, "originals", "Generate variants from the originals tree", build.Originals),
		newCodecStageCommand(ctx, "optimize", "Generate variants for loose images in category folders", build.InPlace),
		newManifestCommand(ctx),
		newPagesCommand(ctx),
		newBuildCommand(ctx),
	}
}

type codecStage func(context.Context, *config.Config, build.Options) (*batch.Report, error)

func newCodecStageCommand(ctx *commandContext, use, short string, stage codecStage) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(func(cfg *config.Config, logger *slog.Logger) error {
				var report *batch.Report
				err := build.Exclusive(cmd.Context(), cfg, logger, func(runCtx context.Context) error {
					var err error
					report, err = stage(runCtx, cfg, build.Options{Logger: logger})
					return err
				})
				if report != nil {
					out := cmd.OutOrStdout()
					printReports(out, []*batch.Report{report}, shouldColorize(out))
				}
				return err
			})
		},
	}
}

func newManifestCommand(ctx *commandContext) *cobra.Command {
	var showDiff bool
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Reconcile category folders and write the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(func(cfg *config.Config, logger *slog.Logger) error {
				var result build.ManifestResult
				err := build.Exclusive(cmd.Context(), cfg, logger, func(runCtx context.Context) error {
					var err error
					result, err = build.Manifest(runCtx, cfg, build.Options{Logger: logger, Diff: showDiff})
					return err
				})
				if err != nil {
					return err
				}
				printManifestResult(cmd, result, showDiff)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Print a unified diff against the previous manifest")
	return cmd
}

func printManifestResult(cmd *cobra.Command, result build.ManifestResult, showDiff bool) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	items := 0
	for _, key := range result.Manifest.Keys() {
		entries, _ := result.Manifest.Entries(key)
		items += len(entries)
	}
	message := fmt.Sprintf("%d categories, %d items -> %s", result.Manifest.Len(), items, result.Path)
	kind := outcomeDone
	if !result.Changed {
		kind = outcomeUnchanged
	}
	fmt.Fprintln(out, renderStatusLine("Manifest", kind, message, colorize))
	if showDiff && result.Diff != "" {
		fmt.Fprint(out, result.Diff)
	}
}

func newPagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "Render one page per manifest category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(func(cfg *config.Config, logger *slog.Logger) error {
				var written []string
				err := build.Exclusive(cmd.Context(), cfg, logger, func(runCtx context.Context) error {
					var err error
					written, err = build.Pages(runCtx, cfg, build.Options{Logger: logger})
					return err
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printPages(out, written, shouldColorize(out))
				return nil
			})
		},
	}
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var opts build.Options
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run psd, originals, manifest, and pages in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(func(cfg *config.Config, logger *slog.Logger) error {
				opts.Logger = logger
				result, err := build.Run(cmd.Context(), cfg, opts)
				if result == nil {
					return err
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				printReports(out, result.Reports, colorize)
				if err != nil {
					return err
				}
				printManifestResult(cmd, result.Manifest, opts.Diff)
				printPages(out, result.Pages, colorize)
				fmt.Fprintln(out, renderStatusLine("Run", outcomeNote, result.RunID, colorize))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "Print a unified diff against the previous manifest")
	cmd.Flags().BoolVar(&opts.SkipOriginals, "skip-originals", false, "Skip the psd and originals codec stages")
	return cmd
}
