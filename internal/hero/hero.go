// Package hero pins the hero image of a category.
package hero

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/fileutil"
	"github.com/lusinstrella/karl-dukstein-photography/internal/naming"
	"github.com/lusinstrella/karl-dukstein-photography/internal/services"
)

// Set replaces the category's hero.txt with id. The category must be a single
// directory name and the directory must already exist. It returns the path
// written.
func Set(imagesDir, category, id string) (string, error) {
	if err := config.ValidateCategoryKey(category); err != nil {
		return "", services.Wrap(services.ErrValidation, "hero", "set", "category", err)
	}
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "\r\n") {
		return "", services.Wrap(services.ErrValidation, "hero", "set", "id must be a single non-empty line", nil)
	}
	dir := filepath.Join(imagesDir, category)
	if !fileutil.IsDir(dir) {
		return "", services.Wrap(services.ErrNotFound, "hero", "set", "category not found: "+category, nil)
	}
	path := filepath.Join(dir, naming.HeroFile)
	if err := fileutil.WriteFileAtomic(path, []byte(id+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write hero file: %w", err)
	}
	return path, nil
}
