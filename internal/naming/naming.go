package naming

import (
	"fmt"
	"strconv"
	"strings"
)

// Suffix is a recognised trailing token of a file stem.
type Suffix string

const (
	SuffixNone   Suffix = ""
	SuffixThumb  Suffix = "thumb"
	SuffixMedium Suffix = "medium"
	SuffixFull   Suffix = "full"
	SuffixHero   Suffix = "hero"
	SuffixFocus  Suffix = "focus"
)

// HeroFile is the per-category sidecar listing hero ids, one per line.
const HeroFile = "hero.txt"

var knownSuffixes = map[string]Suffix{
	string(SuffixThumb):  SuffixThumb,
	string(SuffixMedium): SuffixMedium,
	string(SuffixFull):   SuffixFull,
	string(SuffixHero):   SuffixHero,
	string(SuffixFocus):  SuffixFocus,
}

// Name is the parsed form of a filename.
type Name struct {
	ID     string
	Suffix Suffix
	Ext    string
}

// Parse splits a filename into id, suffix, and extension. Names without a
// recognised suffix return the whole stem as the id.
func Parse(name string) Name {
	stem, ext := name, ""
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		stem, ext = name[:idx], name[idx+1:]
	}
	if idx := strings.LastIndexByte(stem, '-'); idx > 0 {
		if suffix, ok := knownSuffixes[stem[idx+1:]]; ok {
			return Name{ID: stem[:idx], Suffix: suffix, Ext: ext}
		}
	}
	return Name{ID: stem, Ext: ext}
}

// Size reports the variant size encoded in the suffix.
func (n Name) Size() (Size, bool) {
	return ParseSize(string(n.Suffix))
}

// Format reports the encoding format implied by the extension.
func (n Name) Format() (Format, bool) {
	return FormatForExt(n.Ext)
}

// IsVariant reports whether the name is a size variant in a known format.
func (n Name) IsVariant() bool {
	_, sized := n.Size()
	_, known := n.Format()
	return sized && known
}

// String reassembles the filename.
func (n Name) String() string {
	var b strings.Builder
	b.WriteString(n.ID)
	if n.Suffix != SuffixNone {
		b.WriteByte('-')
		b.WriteString(string(n.Suffix))
	}
	if n.Ext != "" {
		b.WriteByte('.')
		b.WriteString(n.Ext)
	}
	return b.String()
}

// Size is one of the nominal variant widths.
type Size int

const (
	SizeThumb Size = iota
	SizeMedium
	SizeFull
)

var sizeOrder = []Size{SizeThumb, SizeMedium, SizeFull}

// Sizes returns all sizes in ascending nominal width.
func Sizes() []Size {
	out := make([]Size, len(sizeOrder))
	copy(out, sizeOrder)
	return out
}

// ParseSize maps a suffix label to its size.
func ParseSize(label string) (Size, bool) {
	switch Suffix(label) {
	case SuffixThumb:
		return SizeThumb, true
	case SuffixMedium:
		return SizeMedium, true
	case SuffixFull:
		return SizeFull, true
	default:
		return 0, false
	}
}

// Suffix returns the filename token for the size.
func (s Size) Suffix() Suffix {
	switch s {
	case SizeThumb:
		return SuffixThumb
	case SizeMedium:
		return SuffixMedium
	case SizeFull:
		return SuffixFull
	default:
		return SuffixNone
	}
}

func (s Size) String() string {
	if suffix := s.Suffix(); suffix != SuffixNone {
		return string(suffix)
	}
	return "size(" + strconv.Itoa(int(s)) + ")"
}

// MarshalText renders the size as its suffix label.
func (s Size) MarshalText() ([]byte, error) {
	suffix := s.Suffix()
	if suffix == SuffixNone {
		return nil, fmt.Errorf("unknown size %d", int(s))
	}
	return []byte(suffix), nil
}

// UnmarshalText parses a suffix label.
func (s *Size) UnmarshalText(text []byte) error {
	size, ok := ParseSize(string(text))
	if !ok {
		return fmt.Errorf("unknown size %q", text)
	}
	*s = size
	return nil
}

// Width is the nominal pixel width used for source-set descriptors. It does
// not reflect the encoded width of a particular file.
func (s Size) Width() int {
	switch s {
	case SizeThumb:
		return 600
	case SizeMedium:
		return 1200
	case SizeFull:
		return 1920
	default:
		return 0
	}
}

// Format is an encoding format of a variant.
type Format int

const (
	FormatModern Format = iota
	FormatLegacy
)

// Formats returns the modern format followed by the legacy format.
func Formats() []Format {
	return []Format{FormatModern, FormatLegacy}
}

// FormatForExt maps a file extension (without the dot) to a format.
func FormatForExt(ext string) (Format, bool) {
	switch ext {
	case "webp":
		return FormatModern, true
	case "jpg":
		return FormatLegacy, true
	default:
		return 0, false
	}
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	if f == FormatModern {
		return "webp"
	}
	return "jpg"
}

func (f Format) String() string {
	return f.Ext()
}

// VariantName returns the conventional filename `<id>-<size>.<ext>`.
func VariantName(id string, size Size, format Format) string {
	return id + "-" + string(size.Suffix()) + "." + format.Ext()
}

// FocusName returns the focal point sidecar filename for id.
func FocusName(id string) string {
	return id + "-" + string(SuffixFocus) + ".txt"
}

// OutputBase derives the base name used for generated variants from a source
// filename: the extension is dropped and spaces become hyphens.
func OutputBase(filename string) string {
	stem := filename
	if idx := strings.LastIndexByte(filename, '.'); idx > 0 {
		stem = filename[:idx]
	}
	return strings.ReplaceAll(stem, " ", "-")
}
