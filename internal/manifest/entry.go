package manifest

import (
	"path"
	"strconv"
	"strings"

	"github.com/lusinstrella/karl-dukstein-photography/internal/catalog"
	"github.com/lusinstrella/karl-dukstein-photography/internal/config"
	"github.com/lusinstrella/karl-dukstein-photography/internal/naming"
)

// Sizes is the display-size hint attached to every entry.
const Sizes = "(max-width: 600px) 100vw, (max-width: 1200px) 50vw, 33vw"

// Entry is one serialized gallery item. Field order is the wire order.
type Entry struct {
	ID             string `json:"id"`
	ThumbWebP      string `json:"thumb_webp"`
	ThumbJPG       string `json:"thumb_jpg"`
	FullWebP       string `json:"full_webp"`
	FullJPG        string `json:"full_jpg"`
	SrcsetWebP     string `json:"srcset_webp,omitempty"`
	SrcsetJPG      string `json:"srcset_jpg,omitempty"`
	Sizes          string `json:"sizes"`
	Alt            string `json:"alt"`
	Hero           bool   `json:"hero"`
	ObjectPosition string `json:"object_position,omitempty"`
}

// Emitter converts catalog items into manifest entries.
type Emitter struct {
	// ImagesPath prefixes every emitted path, relative to the site root.
	ImagesPath string
}

// Entries serializes the items of one category, preserving their order. It
// never fails on missing variants.
func (e Emitter) Entries(category string, items []catalog.Item) []Entry {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, e.entry(category, item))
	}
	return entries
}

func (e Emitter) entry(category string, item catalog.Item) Entry {
	out := Entry{
		ID:         item.ID,
		ThumbWebP:  e.variantPath(category, item.ID, naming.SizeThumb, naming.FormatModern),
		ThumbJPG:   e.variantPath(category, item.ID, naming.SizeThumb, naming.FormatLegacy),
		FullWebP:   e.variantPath(category, item.ID, naming.SizeFull, naming.FormatModern),
		FullJPG:    e.variantPath(category, item.ID, naming.SizeFull, naming.FormatLegacy),
		SrcsetWebP: e.srcset(category, item, naming.FormatModern),
		SrcsetJPG:  e.srcset(category, item, naming.FormatLegacy),
		Sizes:      Sizes,
		Alt:        item.Alt,
		Hero:       item.Hero,
	}
	if item.Focus != nil {
		out.ObjectPosition = item.Focus.Position()
	}
	return out
}

func (e Emitter) variantPath(category, id string, size naming.Size, format naming.Format) string {
	return path.Join(e.ImagesPath, category, naming.VariantName(id, size, format))
}

func (e Emitter) srcset(category string, item catalog.Item, format naming.Format) string {
	parts := make([]string, 0, len(item.Variants))
	for _, size := range naming.Sizes() {
		variant, ok := item.Variant(size)
		if !ok || !variant.Has(format) {
			continue
		}
		parts = append(parts, e.variantPath(category, item.ID, size, format)+" "+strconv.Itoa(size.Width())+"w")
	}
	return strings.Join(parts, ", ")
}

// Build assembles the document for the configured categories. Categories
// with no items map to an empty list.
func (e Emitter) Build(categories []config.Category, items map[string][]catalog.Item) Manifest {
	m := Manifest{}
	for _, cat := range categories {
		m.Set(cat.Key, e.Entries(cat.Key, items[cat.Key]))
	}
	return m
}
