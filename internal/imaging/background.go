package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// SolidBackground returns a flat opaque canvas of the given size and
// color.
func SolidBackground(w, h int, r, g, b uint8) *image.NRGBA {
	return imaging.New(w, h, color.NRGBA{R: r, G: g, B: b, A: 255})
}

// FitBackground shapes a background image to exactly w by h. When crop
// is true and the background covers the target in both dimensions, the
// sub-region at (x, y) is cut out; otherwise the whole background is
// resized to fit.
func FitBackground(bg image.Image, w, h, x, y int, crop bool) *image.NRGBA {
	bw, bh := bg.Bounds().Dx(), bg.Bounds().Dy()
	if crop && bw >= w && bh >= h {
		return imaging.Crop(bg, image.Rect(x, y, x+w, y+h))
	}
	return imaging.Resize(bg, w, h, imaging.Linear)
}

// CompositeOver alpha-composites the text image onto a background of
// the same dimensions:
//
//	final = background × (1 − α) + text × α
//
// with α taken from the text image's stored derived alpha. The result
// is fully opaque; there is no transparency after this stage.
func CompositeOver(bg *image.NRGBA, text *image.NRGBA) *image.NRGBA {
	w, h := text.Rect.Dx(), text.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tOff := y*text.Stride + x*4
			bOff := y*bg.Stride + x*4
			off := y*out.Stride + x*4

			a := float64(text.Pix[tOff+3]) / 255
			for c := 0; c < 3; c++ {
				v := float64(bg.Pix[bOff+c])*(1-a) + float64(text.Pix[tOff+c])*a
				out.Pix[off+c] = uint8(v + 0.5)
			}
			out.Pix[off+3] = 255
		}
	}
	return out
}
