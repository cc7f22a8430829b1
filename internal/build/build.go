package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lusinstrella/karl-dukstein-photography/internal/batch"
	"github.com/lusinstrella/karl-dukstein-photography/internal/codec"
	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/logging"
	"github.com/lusinstrella/karl-dukstein-photography/internal/manifest"
	"github.com/lusinstrella/karl-dukstein-photography/internal/optimize"
	"github.com/lusinstrella/karl-dukstein-photography/internal/pages"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
)

// Options configures a pipeline run.
type Options struct {
	Logger *slog.Logger
	// Encoder defaults to codec.New().
	Encoder codec.Encoder
	// Diff computes a unified diff of the manifest against the previous run.
	Diff bool
	// SkipOriginals omits the PSD and originals codec stages.
	SkipOriginals bool
}

func (o Options) encoder() codec.Encoder {
	if o.Encoder != nil {
		return o.Encoder
	}
	return codec.New()
}

// ManifestResult describes one manifest emission.
type ManifestResult struct {
	Path     string
	Manifest manifest.Manifest
	Changed  bool
	Diff     string
}

// Result collects the outcome of every stage in a run.
type Result struct {
	RunID    string
	Reports  []*batch.Report
	Manifest ManifestResult
	Pages    []string
	Duration time.Duration
}

// Run executes the full pipeline under the project lock: PSD export,
// originals, manifest, then pages. Per-file codec failures land in the report and never
// stop the run.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	return run(ctx, cfg, opts, !opts.SkipOriginals)
}

// Rebuild regenerates the manifest and pages under the project lock without
// touching image variants.
func Rebuild(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	return run(ctx, cfg, opts, false)
}

func run(ctx context.Context, cfg *config.Config, opts Options, originals bool) (*Result, error) {
	result := &Result{}
	started := time.Now()
	err := Exclusive(ctx, cfg, opts.Logger, func(ctx context.Context) error {
		result.RunID, _ = services.RunIDFromContext(ctx)
		logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "build"))
		logger.Info("build started", logging.Bool("originals", originals))

		if originals {
			for _, stage := range []func(context.Context, *config.Config, Options) (*batch.Report, error){ConvertPSDs, Originals} {
				report, err := stage(ctx, cfg, opts)
				if report != nil {
					result.Reports = append(result.Reports, report)
				}
				if err != nil {
					return err
				}
			}
		}

		emitted, err := Manifest(ctx, cfg, opts)
		if err != nil {
			return err
		}
		result.Manifest = emitted

		written, err := Pages(ctx, cfg, opts)
		result.Pages = written
		if err != nil {
			return err
		}

		logger.Info("build finished",
			logging.Int("categories", emitted.Manifest.Len()),
			logging.Int("pages", len(written)),
			logging.Bool("manifest_changed", emitted.Changed),
			logging.Duration("elapsed", time.Since(started)),
		)
		return nil
	})
	result.Duration = time.Since(started)
	return result, err
}

// ConvertPSDs exports every Photoshop document under the originals tree as a
// JPEG beside it. A missing originals tree is a logged no-op returning an
// empty report.
func ConvertPSDs(ctx context.Context, cfg *config.Config, opts Options) (*batch.Report, error) {
	var report *batch.Report
	err := runStage(ctx, opts.Logger, StagePSD, func(ctx context.Context, logger *slog.Logger) error {
		plan, err := optimize.PlanPSDs(cfg.Paths.OriginalsDir)
		if errors.Is(err, optimize.ErrNoOriginals) {
			report = emptyReport(ctx, logger, cfg, StagePSD)
			return nil
		}
		if err != nil {
			return err
		}
		report, err = optimize.ConvertPSDs(ctx, plan, opts.Logger)
		return err
	})
	return report, err
}

// Originals encodes every image under the originals tree into its category
// folder. A missing originals tree is a logged no-op returning an empty
// report.
func Originals(ctx context.Context, cfg *config.Config, opts Options) (*batch.Report, error) {
	var report *batch.Report
	err := runStage(ctx, opts.Logger, StageOriginals, func(ctx context.Context, logger *slog.Logger) error {
		plan, err := optimize.PlanOriginals(cfg.Paths.OriginalsDir, cfg.Paths.ImagesDir)
		if errors.Is(err, optimize.ErrNoOriginals) {
			report = emptyReport(ctx, logger, cfg, StageOriginals)
			return nil
		}
		if err != nil {
			return err
		}
		report, err = optimize.Run(ctx, plan, opts.encoder(), optimize.PresetsFromConfig(cfg.Presets), opts.Logger)
		return err
	})
	return report, err
}

func emptyReport(ctx context.Context, logger *slog.Logger, cfg *config.Config, stage string) *batch.Report {
	logger.Info("no originals folder found", logging.String("originals_dir", cfg.Paths.OriginalsDir))
	runID, _ := services.RunIDFromContext(ctx)
	return batch.NewReport(stage, runID)
}

// InPlace encodes loose source images found directly in category folders.
func InPlace(ctx context.Context, cfg *config.Config, opts Options) (*batch.Report, error) {
	var report *batch.Report
	err := runStage(ctx, opts.Logger, StageInPlace, func(ctx context.Context, _ *slog.Logger) error {
		plan, err := optimize.PlanInPlace(cfg.Paths.ImagesDir, cfg.Paths.OriginalsDir)
		if err != nil {
			return err
		}
		report, err = optimize.Run(ctx, plan, opts.encoder(), optimize.PresetsFromConfig(cfg.Presets), opts.Logger)
		return err
	})
	return report, err
}

// Manifest reconciles every category and writes the manifest atomically.
func Manifest(ctx context.Context, cfg *config.Config, opts Options) (ManifestResult, error) {
	result := ManifestResult{Path: cfg.Paths.Manifest}
	err := runStage(ctx, opts.Logger, StageManifest, func(ctx context.Context, logger *slog.Logger) error {
		doc, err := manifest.Generate(ctx, manifest.OptionsFromConfig(cfg, opts.Logger))
		if err != nil {
			return err
		}
		result.Manifest = doc

		current, err := manifest.Encode(doc)
		if err != nil {
			return err
		}
		previous, err := os.ReadFile(cfg.Paths.Manifest)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("read previous manifest: %w", err)
		}
		result.Changed = previous == nil || !bytes.Equal(previous, current)
		if opts.Diff {
			result.Diff = manifest.Diff(previous, current, cfg.Paths.Manifest)
		}

		if err := manifest.Write(cfg.Paths.Manifest, doc); err != nil {
			return err
		}
		logger.Info("manifest written",
			logging.Output(cfg.Paths.Manifest),
			logging.Int("categories", doc.Len()),
			logging.Int("manifest_bytes", len(current)),
			logging.Bool("changed", result.Changed),
		)
		return nil
	})
	return result, err
}

// Pages renders one page per manifest category, plus the sitemap when a base
// URL is configured.
func Pages(ctx context.Context, cfg *config.Config, opts Options) ([]string, error) {
	var written []string
	err := runStage(ctx, opts.Logger, StagePages, func(ctx context.Context, _ *slog.Logger) error {
		var err error
		written, err = pages.Generate(ctx, pages.OptionsFromConfig(cfg, opts.Logger))
		return err
	})
	return written, err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
