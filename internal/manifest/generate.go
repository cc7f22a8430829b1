package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/lusinstrella/karl-dukstein-photography/internal/catalog"
	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/fileutil"
	"github.com/lusinstrella/karl-dukstein-photography/internal/logging"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
)

// Options configures Generate.
type Options struct {
	Categories []config.Category
	ImagesDir  string
	ImagesPath string
	Logger     *slog.Logger
}

// OptionsFromConfig derives generation options from cfg.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Categories: cfg.Categories,
		ImagesDir:  cfg.Paths.ImagesDir,
		ImagesPath: cfg.Paths.ImagesURL,
		Logger:     logger,
	}
}

// Generate reconciles every configured category directory and builds the
// manifest. A missing category directory yields an empty list.
func Generate(ctx context.Context, opts Options) (Manifest, error) {
	logger := logging.NewComponentLogger(opts.Logger, "manifest")
	emitter := Emitter{ImagesPath: opts.ImagesPath}
	items := make(map[string][]catalog.Item, len(opts.Categories))

	for _, cat := range opts.Categories {
		if err := ctx.Err(); err != nil {
			return Manifest{}, err
		}
		catCtx := services.WithCategory(ctx, cat.Key)
		reconciled, err := catalog.ReconcileDir(catCtx, cat.Key, filepath.Join(opts.ImagesDir, cat.Key))
		if err != nil {
			return Manifest{}, services.Wrap(services.ErrValidation, "manifest", "reconcile", cat.Key, err)
		}
		items[cat.Key] = reconciled

		hero := ""
		for _, item := range reconciled {
			if item.Hero {
				hero = item.ID
				break
			}
		}
		logging.WithContext(catCtx, logger).Debug("category reconciled",
			logging.Int("items", len(reconciled)),
			logging.String("hero", hero),
		)
	}

	return emitter.Build(opts.Categories, items), nil
}

// Encode renders the manifest as indented JSON with a trailing newline.
func Encode(m Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Write encodes m and replaces path atomically.
func Write(path string, m Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Load reads a manifest document from path.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, services.Wrap(services.ErrNotFound, "manifest", "load", path, err)
		}
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, services.Wrap(services.ErrValidation, "manifest", "decode", path, err)
	}
	return m, nil
}

// Diff returns a unified diff between two manifest encodings, or "" when they
// are identical.
func Diff(previous, current []byte, name string) string {
	if bytes.Equal(previous, current) {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(previous)),
		B:        difflib.SplitLines(string(current)),
		FromFile: name + " (previous)",
		ToFile:   name,
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}
