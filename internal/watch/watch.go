// Package watch triggers rebuilds when files under the images tree change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lusinstrella/karl-dukstein-photography/internal/fileutil"
	"github.com/lusinstrella/karl-dukstein-photography/internal/logging"
)

// ChangeFunc handles one debounced batch of changed paths.
type ChangeFunc func(ctx context.Context, paths []string) error

// Watcher debounces filesystem events from a set of directory trees.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
	exclude  map[string]struct{}
}

// New watches every directory under each root. Roots that do not exist are
// skipped; exclude lists subtrees to leave unwatched.
func New(roots []string, exclude []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		debounce: debounce,
		logger:   logging.NewComponentLogger(logger, "watch"),
		exclude:  make(map[string]struct{}, len(exclude)),
	}
	for _, dir := range exclude {
		w.exclude[filepath.Clean(dir)] = struct{}{}
	}
	for _, root := range roots {
		if !fileutil.IsDir(root) {
			w.logger.Debug("watch root missing", logging.String("root", root))
			continue
		}
		if err := w.addTree(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Watched returns the directories currently watched.
func (w *Watcher) Watched() []string {
	list := w.fs.WatchList()
	sort.Strings(list)
	return list
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if _, skip := w.exclude[filepath.Clean(path)]; skip {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func ignored(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// Run delivers debounced change batches to onChange until ctx is cancelled.
// Errors from onChange are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	defer w.fs.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ignored(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			if event.Has(fsnotify.Create) && fileutil.IsDir(event.Name) {
				if err := w.addTree(event.Name); err != nil {
					logging.WarnWithContext(w.logger, "new directory not watched", "watch_add_failed",
						logging.String("dir", event.Name),
						logging.Error(err),
						logging.String(logging.FieldImpact, "changes in this directory need a manual rebuild"),
					)
				}
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(w.logger, "watch error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "some changes may be missed"),
			)

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			clear(pending)
			w.logger.Info("change detected", logging.Int("paths", len(paths)))
			if err := onChange(ctx, paths); err != nil {
				logging.ErrorWithContext(w.logger, "rebuild failed", "rebuild_failed", logging.Error(err))
			}
		}
	}
}
