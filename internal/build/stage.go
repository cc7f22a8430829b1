package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/fileutil"
	"github.com/lusinstrella/karl-dukstein-photography/internal/logging"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
)

// Stage names as they appear in logs and reports.
const (
	StagePSD       = "psd"
	StageOriginals = "originals"
	StageInPlace   = "optimize"
	StageManifest  = "manifest"
	StagePages     = "pages"
)

// runStage wraps fn with stage context and start/finish log lines.
func runStage(ctx context.Context, logger *slog.Logger, name string, fn func(ctx context.Context, logger *slog.Logger) error) error {
	stageCtx := services.WithStage(ctx, name)
	stageLogger := logging.WithContext(stageCtx, logging.NewComponentLogger(logger, "build"))
	started := time.Now()

	stageLogger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	if err := fn(stageCtx, stageLogger); err != nil {
		logging.ErrorWithContext(stageLogger, "stage failed", "stage_failure",
			logging.Error(err),
			logging.Duration("elapsed", time.Since(started)),
		)
		return err
	}
	stageLogger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// Health summarizes whether a stage has the inputs it needs.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

func healthy(name, detail string) Health {
	return Health{Name: name, Ready: true, Detail: detail}
}

func unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}

// Check reports the readiness of each stage against the project tree. A stage
// that is not ready is a no-op or a failure when run, depending on the stage.
func Check(cfg *config.Config) []Health {
	checks := make([]Health, 0, 5)

	if fileutil.IsDir(cfg.Paths.OriginalsDir) {
		checks = append(checks, healthy(StagePSD, cfg.Paths.OriginalsDir))
		checks = append(checks, healthy(StageOriginals, cfg.Paths.OriginalsDir))
	} else {
		checks = append(checks, unhealthy(StagePSD, "no originals folder found"))
		checks = append(checks, unhealthy(StageOriginals, "no originals folder found"))
	}

	if fileutil.IsDir(cfg.Paths.ImagesDir) {
		checks = append(checks, healthy(StageInPlace, cfg.Paths.ImagesDir))
		missing := 0
		for _, key := range cfg.CategoryKeys() {
			if !fileutil.IsDir(cfg.CategoryDir(key)) {
				missing++
			}
		}
		if missing == 0 {
			checks = append(checks, healthy(StageManifest, "all categories present"))
		} else {
			checks = append(checks, healthy(StageManifest, "categories without a folder render empty"))
		}
	} else {
		checks = append(checks, unhealthy(StageInPlace, "images folder missing"))
		checks = append(checks, healthy(StageManifest, "every category renders empty"))
	}

	if fileExists(cfg.Paths.Manifest) {
		checks = append(checks, healthy(StagePages, cfg.Paths.Manifest))
	} else {
		checks = append(checks, unhealthy(StagePages, "manifest not generated yet"))
	}
	return checks
}
