package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	_ "github.com/oov/psd"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Preset describes one variant to produce.
type Preset struct {
	Label   string
	Width   int
	Quality int
}

// Output holds the encoded bytes for one preset. A format whose encoding
// failed has nil bytes and a non-nil error; the other format is unaffected.
type Output struct {
	Label     string
	Width     int
	Height    int
	Modern    []byte
	Legacy    []byte
	ModernErr error
	LegacyErr error
}

// Encoder produces variants of a decoded image.
type Encoder interface {
	Encode(src image.Image, presets []Preset) []Output
}

// ModernFunc encodes img in the modern format at quality.
type ModernFunc func(w io.Writer, img image.Image, quality int) error

// VariantEncoder resamples with Catmull-Rom and encodes WebP and JPEG.
type VariantEncoder struct {
	modern ModernFunc
}

// New returns an encoder backed by libwebp.
func New() *VariantEncoder {
	return &VariantEncoder{modern: EncodeWebP}
}

// NewWithModern returns an encoder using fn for the modern format.
func NewWithModern(fn ModernFunc) *VariantEncoder {
	return &VariantEncoder{modern: fn}
}

// Encode resizes src for every preset and encodes both formats. Target width
// is clamped to the source width and the aspect ratio is kept.
func (e *VariantEncoder) Encode(src image.Image, presets []Preset) []Output {
	outputs := make([]Output, 0, len(presets))
	for _, preset := range presets {
		resized := Resize(src, preset.Width)
		bounds := resized.Bounds()
		out := Output{Label: preset.Label, Width: bounds.Dx(), Height: bounds.Dy()}

		var modern bytes.Buffer
		if err := e.modern(&modern, resized, preset.Quality); err != nil {
			out.ModernErr = fmt.Errorf("encode webp %s: %w", preset.Label, err)
		} else {
			out.Modern = modern.Bytes()
		}

		var legacy bytes.Buffer
		if err := EncodeJPEG(&legacy, resized, preset.Quality); err != nil {
			out.LegacyErr = fmt.Errorf("encode jpeg %s: %w", preset.Label, err)
		} else {
			out.Legacy = legacy.Bytes()
		}
		outputs = append(outputs, out)
	}
	return outputs
}

// TargetSize returns the variant dimensions for a source of srcW x srcH at
// the requested width.
func TargetSize(srcW, srcH, width int) (int, int) {
	if width <= 0 || width > srcW {
		width = srcW
	}
	if srcW <= 0 {
		return 0, 0
	}
	height := int(int64(srcH) * int64(width) / int64(srcW))
	if height < 1 {
		height = 1
	}
	return width, height
}

// Resize scales src to width, returning src unchanged when no scaling is
// needed.
func Resize(src image.Image, width int) image.Image {
	bounds := src.Bounds()
	w, h := TargetSize(bounds.Dx(), bounds.Dy(), width)
	if w == bounds.Dx() && h == bounds.Dy() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// Flatten composites src over opaque white.
func Flatten(src image.Image) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst
}

// EncodeJPEG flattens img onto white and writes it as baseline JPEG.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, Flatten(img), &jpeg.Options{Quality: clampQuality(quality)})
}

// EncodeWebP writes img as lossy WebP.
func EncodeWebP(w io.Writer, img image.Image, quality int) error {
	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(clampQuality(quality)))
	if err != nil {
		return err
	}
	return webp.Encode(w, img, opts)
}

// Decode reads an image in any registered format and reports the format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

func clampQuality(q int) int {
	switch {
	case q < 1:
		return 1
	case q > 100:
		return 100
	default:
		return q
	}
}
