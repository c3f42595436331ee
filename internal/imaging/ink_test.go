package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestInk_GrayscaleInverted(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(1, 1, color.Gray{Y: 0})   // dark stroke
	src.SetGray(2, 2, color.Gray{Y: 200}) // light
	for x := 0; x < 4; x++ {
		src.SetGray(x, 0, color.Gray{Y: 255}) // white paper
	}

	ink := Ink(src)

	if got := ink.GrayAt(1, 1).Y; got != 255 {
		t.Errorf("dark stroke: got %d, want 255", got)
	}
	if got := ink.GrayAt(2, 2).Y; got != 55 {
		t.Errorf("light pixel: got %d, want 55", got)
	}
	if got := ink.GrayAt(0, 0).Y; got != 0 {
		t.Errorf("white paper: got %d, want 0", got)
	}
}

func TestInk_TransparentBackgroundMasked(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	// Fully transparent white background would invert to 0 anyway, but
	// transparent BLACK must also come out as background.
	src.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 0})
	src.SetNRGBA(1, 1, color.NRGBA{0, 0, 0, 255})       // opaque black stroke
	src.SetNRGBA(2, 2, color.NRGBA{255, 255, 255, 255}) // opaque white

	ink := Ink(src)

	if got := ink.GrayAt(0, 0).Y; got != 0 {
		t.Errorf("transparent pixel: got %d, want 0", got)
	}
	if got := ink.GrayAt(1, 1).Y; got != 255 {
		t.Errorf("opaque black stroke: got %d, want 255", got)
	}
	if got := ink.GrayAt(2, 2).Y; got != 0 {
		t.Errorf("opaque white: got %d, want 0", got)
	}
}

func TestInk_SourcesConverge(t *testing.T) {
	// Dark-on-white grayscale and dark-on-transparent RGBA describe the
	// same glyph and must normalize identically.
	grayscale := image.NewGray(image.Rect(0, 0, 3, 3))
	transparent := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			grayscale.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	grayscale.SetGray(1, 1, color.Gray{Y: 0})
	transparent.SetNRGBA(1, 1, color.NRGBA{0, 0, 0, 255})

	a := Ink(grayscale)
	b := Ink(transparent)

	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel %d differs: %d vs %d", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestInkBounds(t *testing.T) {
	ink := blockInk(10, 8, image.Rect(2, 3, 6, 5))

	r, ok := InkBounds(ink)
	if !ok {
		t.Fatal("InkBounds found no ink")
	}
	if r != image.Rect(2, 3, 6, 5) {
		t.Errorf("bounds: got %v, want (2,3)-(6,5)", r)
	}
}

func TestInkBounds_Empty(t *testing.T) {
	if _, ok := InkBounds(solidInk(5, 5, 0)); ok {
		t.Error("InkBounds on empty image should report no ink")
	}
}

func TestTrimInk(t *testing.T) {
	ink := blockInk(10, 8, image.Rect(2, 3, 6, 5))

	trimmed := TrimInk(ink)
	if trimmed == nil {
		t.Fatal("TrimInk returned nil for non-empty ink")
	}
	if trimmed.Rect.Dx() != 4 || trimmed.Rect.Dy() != 2 {
		t.Errorf("trimmed size: got %dx%d, want 4x2", trimmed.Rect.Dx(), trimmed.Rect.Dy())
	}
	if countInk(trimmed) != 8 {
		t.Errorf("trimmed ink count: got %d, want 8", countInk(trimmed))
	}
}

func TestTrimInk_Empty(t *testing.T) {
	if got := TrimInk(solidInk(5, 5, 0)); got != nil {
		t.Error("TrimInk on empty ink should return nil")
	}
}
