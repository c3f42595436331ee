package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// Rotate rotates ink about its center by angle degrees. The output
// canvas grows to h·|sin|+w·|cos| by h·|cos|+w·|sin| and the content is
// recentered, so nothing is clipped; exposed border area is 0.
func Rotate(ink *image.Gray, angle float64) *image.Gray {
	rotated := transform.Rotate(ink, angle, &transform.RotationOptions{ResizeBounds: true})
	return grayFromRGBA(rotated)
}

// Shear applies an x-axis shear of angle degrees. The canvas size is
// unchanged; content pushed past the border is clipped.
func Shear(ink *image.Gray, angle float64) *image.Gray {
	w, h := ink.Rect.Dx(), ink.Rect.Dy()
	t := math.Tan(angle * math.Pi / 180)

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Inverse mapping of x' = x + tan(angle)·y.
			out.Pix[y*out.Stride+x] = sampleGray(ink, float64(x)-t*float64(y), float64(y))
		}
	}
	return out
}

// Scale resizes a colored glyph uniformly by factor using linear
// interpolation, then restores the derived-alpha invariant on the
// interpolated result. Dimensions are clamped to at least 1x1.
func Scale(img *image.NRGBA, factor float64) *image.NRGBA {
	w := int(float64(img.Rect.Dx()) * factor)
	h := int(float64(img.Rect.Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := imaging.Resize(img, w, h, imaging.Linear)
	DeriveAlpha(out)
	return out
}

// ResizeInk resizes an ink buffer to exactly w by h with linear
// interpolation.
func ResizeInk(ink *image.Gray, w, h int) *image.Gray {
	resized := imaging.Resize(ink, w, h, imaging.Linear)
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*out.Stride+x] = resized.Pix[y*resized.Stride+x*4]
		}
	}
	return out
}

// grayFromRGBA extracts the red channel of an image whose channels are
// known to be equal (a grayscale image round-tripped through RGBA).
func grayFromRGBA(img *image.RGBA) *image.Gray {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*out.Stride+x] = img.Pix[y*img.Stride+x*4]
		}
	}
	return out
}

// sampleGray samples ink at a fractional coordinate with bilinear
// interpolation, treating everything outside the canvas as 0.
func sampleGray(ink *image.Gray, fx, fy float64) uint8 {
	w, h := ink.Rect.Dx(), ink.Rect.Dy()

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	at := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return float64(ink.Pix[y*ink.Stride+x])
	}

	v := at(x0, y0)*(1-dx)*(1-dy) +
		at(x0+1, y0)*dx*(1-dy) +
		at(x0, y0+1)*(1-dx)*dy +
		at(x0+1, y0+1)*dx*dy
	return uint8(v + 0.5)
}
