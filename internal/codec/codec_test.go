package codec_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/lusinstrella/karl-dukstein-photography/internal/codec"
)

func fakeModern(w io.Writer, img image.Image, quality int) error {
	return png.Encode(w, img)
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		srcW, srcH, width int
		wantW, wantH      int
	}{
		{4000, 3000, 600, 600, 450},
		{400, 300, 600, 400, 300},
		{1000, 333, 600, 600, 199},
		{3000, 1, 600, 600, 1},
		{800, 600, 0, 800, 600},
	}
	for _, tc := range tests {
		w, h := codec.TargetSize(tc.srcW, tc.srcH, tc.width)
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("TargetSize(%d,%d,%d) = %dx%d, want %dx%d", tc.srcW, tc.srcH, tc.width, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestEncodeClampsAndPreservesAspect(t *testing.T) {
	src := solid(200, 100, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	enc := codec.NewWithModern(fakeModern)

	outputs := enc.Encode(src, []codec.Preset{
		{Label: "thumb", Width: 50, Quality: 80},
		{Label: "full", Width: 1920, Quality: 90},
	})
	if len(outputs) != 2 {
		t.Fatalf("expected two outputs, got %d", len(outputs))
	}
	if outputs[0].Width != 50 || outputs[0].Height != 25 {
		t.Fatalf("thumb size = %dx%d", outputs[0].Width, outputs[0].Height)
	}
	if outputs[1].Width != 200 || outputs[1].Height != 100 {
		t.Fatalf("full should be clamped to source, got %dx%d", outputs[1].Width, outputs[1].Height)
	}

	legacy, err := jpeg.Decode(bytes.NewReader(outputs[0].Legacy))
	if err != nil {
		t.Fatalf("decode legacy: %v", err)
	}
	if legacy.Bounds().Dx() != 50 || legacy.Bounds().Dy() != 25 {
		t.Fatalf("legacy bounds = %v", legacy.Bounds())
	}
	if len(outputs[0].Modern) == 0 || outputs[0].ModernErr != nil {
		t.Fatalf("expected modern bytes, err=%v", outputs[0].ModernErr)
	}
}

func TestEncodeFlattensAlphaOntoWhite(t *testing.T) {
	src := solid(8, 8, color.NRGBA{A: 0})
	outputs := codec.NewWithModern(fakeModern).Encode(src, []codec.Preset{{Label: "thumb", Width: 8, Quality: 100}})

	img, err := jpeg.Decode(bytes.NewReader(outputs[0].Legacy))
	if err != nil {
		t.Fatalf("decode legacy: %v", err)
	}
	r, g, b, _ := img.At(4, 4).RGBA()
	if r>>8 < 245 || g>>8 < 245 || b>>8 < 245 {
		t.Fatalf("expected white background, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestEncodeKeepsLegacyWhenModernFails(t *testing.T) {
	failing := func(io.Writer, image.Image, int) error { return errors.New("no libwebp") }
	outputs := codec.NewWithModern(failing).Encode(solid(10, 10, color.Black), []codec.Preset{{Label: "thumb", Width: 10, Quality: 80}})
	if outputs[0].ModernErr == nil || outputs[0].Modern != nil {
		t.Fatalf("expected modern failure, got %+v", outputs[0])
	}
	if outputs[0].LegacyErr != nil || len(outputs[0].Legacy) == 0 {
		t.Fatalf("legacy should still be encoded: %v", outputs[0].LegacyErr)
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(3, 2, color.White)); err != nil {
		t.Fatal(err)
	}
	img, format, err := codec.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "png" || img.Bounds().Dx() != 3 {
		t.Fatalf("unexpected decode result %s %v", format, img.Bounds())
	}
	if _, _, err := codec.Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Fatal("expected decode error")
	}
}
