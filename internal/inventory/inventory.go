// Package inventory counts image files per top-level folder of the images
// tree.
package inventory

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lusinstrella/karl-dukstein-photography/internal/optimize"
)

// Folder is the image count of one top-level folder.
type Folder struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Inventory lists folders in name order with the overall total.
type Inventory struct {
	Folders []Folder `json:"folders" yaml:"folders"`
	Total   int      `json:"total" yaml:"total"`
}

// Count walks imagesDir recursively and tallies supported image files by
// their first path segment. Files at the top level count under ".". A
// missing directory yields an empty inventory.
func Count(imagesDir string) (Inventory, error) {
	counts := map[string]int{}
	total := 0
	err := filepath.WalkDir(imagesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == imagesDir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !optimize.IsSupported(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(imagesDir, path)
		if err != nil {
			return err
		}
		folder := "."
		if parts := strings.Split(filepath.ToSlash(rel), "/"); len(parts) > 1 {
			folder = parts[0]
		}
		counts[folder]++
		total++
		return nil
	})
	if err != nil {
		return Inventory{}, fmt.Errorf("walk images: %w", err)
	}

	inv := Inventory{Folders: make([]Folder, 0, len(counts)), Total: total}
	for name, n := range counts {
		inv.Folders = append(inv.Folders, Folder{Name: name, Count: n})
	}
	sort.Slice(inv.Folders, func(i, j int) bool { return inv.Folders[i].Name < inv.Folders[j].Name })
	return inv, nil
}
