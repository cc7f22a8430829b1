package optimize

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/lusinstrella/karl-dukstein-photography/internal/batch"
	"github.com/lusinstrella/karl-dukstein-photography/internal/codec"
	"github.com/lusinstrella/karl-dukstein-photography/internal/fileutil"
	"github.com/lusinstrella/karl-dukstein-photography/internal/logging"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
)

// PSDQuality is the JPEG quality of flattened Photoshop exports.
const PSDQuality = 95

// IsPSD reports whether name is a Photoshop document.
func IsPSD(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".psd")
}

// PSDPath returns the JPEG written for a Photoshop job: the source stem with
// a .jpg extension, next to the source.
func (j Job) PSDPath() string {
	return filepath.Join(j.TargetDir, j.Base+".jpg")
}

// PlanPSDs lists every .psd anywhere under originalsDir. A missing tree
// returns ErrNoOriginals.
func PlanPSDs(originalsDir string) (Plan, error) {
	plan := newPlan()
	if err := requireOriginals(originalsDir); err != nil {
		return plan, err
	}
	err := plan.walk(originalsDir, func(path string, d fs.DirEntry) error {
		if d.IsDir() || !IsPSD(d.Name()) {
			return nil
		}
		category, _ := firstSegment(originalsDir, path)
		name := d.Name()
		plan.Jobs = append(plan.Jobs, Job{
			Source:    path,
			Category:  category,
			TargetDir: filepath.Dir(path),
			Base:      strings.TrimSuffix(name, filepath.Ext(name)),
		})
		return nil
	})
	if err != nil {
		return plan, fmt.Errorf("walk originals: %w", err)
	}
	return plan, nil
}

// ConvertPSDs flattens each planned document onto white and writes it as a
// JPEG beside the source so the originals stage picks it up. Existing JPEGs
// are overwritten. Failures are recorded and the batch continues; only
// context cancellation is returned.
func ConvertPSDs(ctx context.Context, plan Plan, logger *slog.Logger) (*batch.Report, error) {
	stage, _ := services.StageFromContext(ctx)
	if stage == "" {
		stage = "psd"
	}
	runID, _ := services.RunIDFromContext(ctx)
	report := plan.Report
	if report == nil {
		report = batch.NewReport(stage, runID)
	}
	report.Stage, report.RunID = stage, runID
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "psd"))

	started := time.Now()
	defer func() { report.Duration = time.Since(started) }()

	logPlanned(report, logger)
	for _, job := range plan.Jobs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		convertPSD(job, report, logger.With(logging.String(logging.FieldCategory, job.Category)))
	}
	summary := report.Summary()
	logger.Info("psd conversion finished",
		logging.Int("converted", summary.OK),
		logging.Int("failed", summary.Failed),
	)
	return report, nil
}

func convertPSD(job Job, report *batch.Report, logger *slog.Logger) {
	target := job.PSDPath()
	img, err := decodeFile(job.Source)
	if err != nil {
		report.Failed(job.Source, target, err)
		logging.WarnWithContext(logger, "psd not converted", "decode_failed",
			logging.Source(job.Source),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "save the document with maximize compatibility enabled"),
		)
		return
	}

	var buf bytes.Buffer
	if err := codec.EncodeJPEG(&buf, img, PSDQuality); err != nil {
		failure := services.Wrap(services.ErrCodec, "psd", "encode", target, err)
		report.Failed(job.Source, target, failure)
		logging.WarnWithContext(logger, "psd not converted", "encode_failed",
			logging.Source(job.Source),
			logging.Error(err),
		)
		return
	}
	if err := fileutil.WriteFileAtomic(target, buf.Bytes(), 0o644); err != nil {
		report.Failed(job.Source, target, err)
		logging.WarnWithContext(logger, "psd not converted", "write_failed",
			logging.Output(target),
			logging.Error(err),
		)
		return
	}
	report.Ok(job.Source, target, int64(buf.Len()))
	logger.Info("psd converted",
		logging.Source(job.Source),
		logging.Output(target),
	)
}
