package imaging

import (
	"image/color"
	"testing"
)

func TestSolidBackground(t *testing.T) {
	bg := SolidBackground(5, 3, 10, 20, 30)

	if bg.Rect.Dx() != 5 || bg.Rect.Dy() != 3 {
		t.Fatalf("size: got %dx%d, want 5x3", bg.Rect.Dx(), bg.Rect.Dy())
	}
	px := bg.NRGBAAt(2, 1)
	if px.R != 10 || px.G != 20 || px.B != 30 || px.A != 255 {
		t.Errorf("got %+v, want (10,20,30,255)", px)
	}
}

func TestFitBackground_Crop(t *testing.T) {
	bg := solidNRGBA(20, 20, color.NRGBA{50, 50, 50, 255})

	out := FitBackground(bg, 8, 6, 5, 5, true)
	if out.Rect.Dx() != 8 || out.Rect.Dy() != 6 {
		t.Errorf("cropped size: got %dx%d, want 8x6", out.Rect.Dx(), out.Rect.Dy())
	}
}

func TestFitBackground_ResizeWhenTooSmall(t *testing.T) {
	bg := solidNRGBA(4, 4, color.NRGBA{50, 50, 50, 255})

	// Background smaller than target: crop is requested but impossible,
	// so the whole image is resized.
	out := FitBackground(bg, 10, 8, 0, 0, true)
	if out.Rect.Dx() != 10 || out.Rect.Dy() != 8 {
		t.Errorf("resized size: got %dx%d, want 10x8", out.Rect.Dx(), out.Rect.Dy())
	}
}

func TestFitBackground_NoCrop(t *testing.T) {
	bg := solidNRGBA(20, 20, color.NRGBA{50, 50, 50, 255})

	out := FitBackground(bg, 8, 6, 0, 0, false)
	if out.Rect.Dx() != 8 || out.Rect.Dy() != 6 {
		t.Errorf("size: got %dx%d, want 8x6", out.Rect.Dx(), out.Rect.Dy())
	}
}

func TestCompositeOver(t *testing.T) {
	bg := SolidBackground(2, 1, 255, 255, 255)

	text := solidNRGBA(2, 1, color.NRGBA{0, 0, 0, 0})
	text.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255}) // full ink
	// (1,0) stays transparent background.

	out := CompositeOver(bg, text)

	inkPx := out.NRGBAAt(0, 0)
	if inkPx.R != 255 || inkPx.G != 0 || inkPx.B != 0 {
		t.Errorf("ink pixel: got %+v, want red", inkPx)
	}
	bgPx := out.NRGBAAt(1, 0)
	if bgPx.R != 255 || bgPx.G != 255 || bgPx.B != 255 {
		t.Errorf("background pixel: got %+v, want white", bgPx)
	}
	if inkPx.A != 255 || bgPx.A != 255 {
		t.Error("output must be fully opaque")
	}
}

func TestCompositeOver_PartialAlpha(t *testing.T) {
	bg := SolidBackground(1, 1, 0, 0, 0)
	text := solidNRGBA(1, 1, color.NRGBA{200, 200, 200, 100})

	out := CompositeOver(bg, text)
	px := out.NRGBAAt(0, 0)

	// 0·(1−100/255) + 200·(100/255) ≈ 78.
	if px.R < 77 || px.R > 79 {
		t.Errorf("partial alpha blend: got %d, want about 78", px.R)
	}
}
