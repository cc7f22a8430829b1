package catalog

import (
	"math"
	"strconv"
	"strings"
)

// FocalKind distinguishes the two focal point shapes.
type FocalKind int

const (
	FocalSide FocalKind = iota + 1
	FocalPercent
)

func (k FocalKind) String() string {
	switch k {
	case FocalSide:
		return "side"
	case FocalPercent:
		return "percent"
	default:
		return "none"
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k FocalKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

var sideKeywords = map[string]struct{}{
	"left":   {},
	"right":  {},
	"top":    {},
	"bottom": {},
}

// FocalPoint is either a side keyword or an x/y percentage pair.
type FocalPoint struct {
	Kind FocalKind `json:"kind" yaml:"kind"`
	Side string    `json:"side,omitempty" yaml:"side,omitempty"`
	X    float64   `json:"x,omitempty" yaml:"x,omitempty"`
	Y    float64   `json:"y,omitempty" yaml:"y,omitempty"`
}

// ParseFocalPoint reads focus sidecar content. The second result is false
// for anything other than a bare side keyword or exactly two finite numbers.
func ParseFocalPoint(data []byte) (FocalPoint, bool) {
	text := strings.TrimSpace(string(data))
	if _, ok := sideKeywords[text]; ok {
		return FocalPoint{Kind: FocalSide, Side: text}, true
	}
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return FocalPoint{}, false
	}
	x, ok := parseFinite(fields[0])
	if !ok {
		return FocalPoint{}, false
	}
	y, ok := parseFinite(fields[1])
	if !ok {
		return FocalPoint{}, false
	}
	return FocalPoint{Kind: FocalPercent, X: x, Y: y}, true
}

func parseFinite(value string) (float64, bool) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Position renders the point as a CSS object-position value.
func (f FocalPoint) Position() string {
	switch f.Kind {
	case FocalSide:
		return f.Side
	case FocalPercent:
		return formatPercent(f.X) + " " + formatPercent(f.Y)
	default:
		return ""
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
