package optimize

import (
	"context"
	"image"
	"log/slog"
	"os"
	"time"

	"github.com/lusinstrella/karl-dukstein-photography/internal/batch"
	"github.com/lusinstrella/karl-dukstein-photography/internal/codec"
	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/fileutil"
	"github.com/lusinstrella/karl-dukstein-photography/internal/logging"
	"github.com/lusinstrella/karl-dukstein-photography/internal/naming"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
)

// PresetsFromConfig converts configured presets to codec presets.
func PresetsFromConfig(presets []config.Preset) []codec.Preset {
	out := make([]codec.Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, codec.Preset{Label: p.Label, Width: p.Width, Quality: p.Quality})
	}
	return out
}

// Run processes the plan's jobs sequentially. Per-file failures are recorded
// and logged; the only error returned is context cancellation, alongside the
// partial report. The report starts with the outcomes recorded while planning.
func Run(ctx context.Context, plan Plan, enc codec.Encoder, presets []codec.Preset, logger *slog.Logger) (*batch.Report, error) {
	stage, _ := services.StageFromContext(ctx)
	if stage == "" {
		stage = "optimize"
	}
	runID, _ := services.RunIDFromContext(ctx)
	report := plan.Report
	if report == nil {
		report = batch.NewReport(stage, runID)
	}
	report.Stage, report.RunID = stage, runID
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "optimize"))

	started := time.Now()
	defer func() { report.Duration = time.Since(started) }()

	logPlanned(report, logger)
	logger.Info("optimize started", logging.Int("sources", len(plan.Jobs)), logging.Int("presets", len(presets)))
	for _, job := range plan.Jobs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		processJob(job, enc, presets, report, logger.With(logging.String(logging.FieldCategory, job.Category)))
	}
	summary := report.Summary()
	logger.Info("optimize finished",
		logging.Int("written", summary.OK),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Int64("output_bytes", summary.Bytes),
	)
	return report, nil
}

func logPlanned(report *batch.Report, logger *slog.Logger) {
	for _, result := range report.Results {
		switch result.Status {
		case batch.StatusFailed:
			logging.WarnWithContext(logger, "directory not scanned", "walk_failed",
				logging.Path(result.Source),
				logging.String("reason", result.Reason),
				logging.String(logging.FieldImpact, "images below this path were not processed"),
				logging.String(logging.FieldErrorHint, "check the directory permissions"),
			)
		case batch.StatusSkipped:
			logger.Debug("source skipped",
				logging.Source(result.Source),
				logging.String("reason", result.Reason),
			)
		}
	}
}

func processJob(job Job, enc codec.Encoder, presets []codec.Preset, report *batch.Report, logger *slog.Logger) {

	img, err := decodeFile(job.Source)
	if err != nil {
		report.Failed(job.Source, "", err)
		logging.WarnWithContext(logger, "source skipped", "decode_failed",
			logging.Source(job.Source),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "export the file as JPEG, PNG, or TIFF"),
		)
		return
	}

	if err := os.MkdirAll(job.TargetDir, 0o755); err != nil {
		report.Failed(job.Source, job.TargetDir, err)
		logging.WarnWithContext(logger, "target directory unavailable", "mkdir_failed",
			logging.String("target_dir", job.TargetDir),
			logging.Error(err),
		)
		return
	}

	written := 0
	for _, out := range enc.Encode(img, presets) {
		for _, format := range naming.Formats() {
			data, encErr := out.Modern, out.ModernErr
			if format == naming.FormatLegacy {
				data, encErr = out.Legacy, out.LegacyErr
			}
			target := job.VariantPath(out.Label, format)
			if encErr != nil {
				failure := services.Wrap(services.ErrCodec, "optimize", "encode", out.Label, encErr)
				report.Failed(job.Source, target, failure)
				logging.WarnWithContext(logger, "variant skipped", "encode_failed",
					logging.Output(target),
					logging.Error(encErr),
				)
				continue
			}
			if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
				report.Failed(job.Source, target, err)
				logging.WarnWithContext(logger, "variant not written", "write_failed",
					logging.Output(target),
					logging.Error(err),
				)
				continue
			}
			report.Ok(job.Source, target, int64(len(data)))
			written++
		}
	}
	logger.Info("source optimized",
		logging.Source(job.Source),
		logging.String("base", job.Base),
		logging.Int("variants", written),
	)
}

func decodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "optimize", "open", path, err)
	}
	defer file.Close()
	img, _, err := codec.Decode(file)
	if err != nil {
		return nil, services.Wrap(services.ErrCodec, "optimize", "decode", path, err)
	}
	return img, nil
}
