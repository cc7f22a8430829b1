package catalog

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/lusinstrella/karl-dukstein-photography/internal/naming"
)

// SidecarReader reads sidecar files from a category directory by base name.
// fs.ReadFileFS values such as os.DirFS and fstest.MapFS satisfy it.
type SidecarReader interface {
	ReadFile(name string) ([]byte, error)
}

// Variant records which formats exist for one size of an item.
type Variant struct {
	Size   naming.Size `json:"size" yaml:"size"`
	Modern bool        `json:"modern" yaml:"modern"`
	Legacy bool        `json:"legacy" yaml:"legacy"`
}

// Has reports whether the variant exists in format f.
func (v Variant) Has(f naming.Format) bool {
	if f == naming.FormatModern {
		return v.Modern
	}
	return v.Legacy
}

// Item is one reconciled gallery entry.
type Item struct {
	Category string      `json:"category" yaml:"category"`
	ID       string      `json:"id" yaml:"id"`
	Variants []Variant   `json:"variants" yaml:"variants"`
	Alt      string      `json:"alt" yaml:"alt"`
	Hero     bool        `json:"hero" yaml:"hero"`
	Focus    *FocalPoint `json:"focus,omitempty" yaml:"focus,omitempty"`
}

// Variant returns the recorded variant for size, if any.
func (it Item) Variant(size naming.Size) (Variant, bool) {
	for _, v := range it.Variants {
		if v.Size == size {
			return v, true
		}
	}
	return Variant{}, false
}

// Reconcile derives the ordered item list for one category from its file
// names and sidecars. A nil sidecars reader means no sidecars exist.
func Reconcile(category string, files []string, sidecars SidecarReader) []Item {
	present := make(map[string]struct{}, len(files))
	idSet := make(map[string]struct{})
	for _, name := range files {
		present[name] = struct{}{}
		parsed := naming.Parse(name)
		if parsed.Suffix != naming.SuffixThumb || parsed.ID == "" {
			continue
		}
		if _, ok := parsed.Format(); !ok {
			continue
		}
		idSet[parsed.ID] = struct{}{}
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	heroes := HeroCandidates(files, sidecars)

	items := make([]Item, 0, len(ids))
	anyHero := false
	for _, id := range ids {
		item := Item{
			Category: category,
			ID:       id,
			Alt:      strings.ReplaceAll(id, "-", " "),
		}
		for _, size := range naming.Sizes() {
			_, modern := present[naming.VariantName(id, size, naming.FormatModern)]
			_, legacy := present[naming.VariantName(id, size, naming.FormatLegacy)]
			if modern || legacy {
				item.Variants = append(item.Variants, Variant{Size: size, Modern: modern, Legacy: legacy})
			}
		}
		if focus, ok := readFocus(sidecars, id); ok {
			item.Focus = &focus
		}
		if _, ok := heroes[id]; ok {
			item.Hero = true
			anyHero = true
		}
		items = append(items, item)
	}

	if !anyHero && len(items) > 0 {
		items[0].Hero = true
	}
	return items
}

func readFocus(sidecars SidecarReader, id string) (FocalPoint, bool) {
	if sidecars == nil {
		return FocalPoint{}, false
	}
	data, err := sidecars.ReadFile(naming.FocusName(id))
	if err != nil {
		return FocalPoint{}, false
	}
	return ParseFocalPoint(data)
}

// HeroCandidates returns the union of ids named by `<id>-hero.<ext>` files
// and the non-blank lines of hero.txt. Unreadable sidecars contribute nothing.
func HeroCandidates(files []string, sidecars SidecarReader) map[string]struct{} {
	candidates := make(map[string]struct{})
	for _, name := range files {
		if idx := strings.LastIndex(name, "-hero."); idx > 0 {
			candidates[name[:idx]] = struct{}{}
		}
	}
	if sidecars == nil {
		return candidates
	}
	data, err := sidecars.ReadFile(naming.HeroFile)
	if err != nil {
		return candidates
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			candidates[line] = struct{}{}
		}
	}
	return candidates
}

// ScanDir lists the regular file names of a category directory and returns a
// sidecar reader rooted at it. A missing directory yields no files and no
// error.
func ScanDir(ctx context.Context, dir string) ([]string, SidecarReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read category dir %q: %w", dir, err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	return files, dirSidecars{fsys: os.DirFS(dir)}, nil
}

type dirSidecars struct {
	fsys fs.FS
}

func (d dirSidecars) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(d.fsys, name)
}

// ReconcileDir scans dir and reconciles it as category.
func ReconcileDir(ctx context.Context, category, dir string) ([]Item, error) {
	files, sidecars, err := ScanDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	return Reconcile(category, files, sidecars), nil
}
