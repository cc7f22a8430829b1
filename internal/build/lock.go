package build

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/logging"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
)

// Acquire takes the project build lock without blocking. A lock held by
// another run yields services.ErrLocked.
func Acquire(path string) (*flock.Flock, error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire build lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "build", "lock", "another portfolio run holds "+path, nil)
	}
	return lock, nil
}

// Exclusive runs fn while holding the project lock. The context passed to fn
// carries a fresh run id.
func Exclusive(ctx context.Context, cfg *config.Config, logger *slog.Logger, fn func(ctx context.Context) error) error {
	lock, err := Acquire(cfg.LockPath())
	if err != nil {
		return err
	}
	logger = logging.NewComponentLogger(logger, "build")
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release build lock", logging.Error(err))
		}
	}()

	if err := cfg.EnsureDirectories(); err != nil {
		return services.Wrap(services.ErrConfiguration, "build", "prepare", "output directories", err)
	}
	return fn(services.WithRunID(ctx, uuid.NewString()))
}
