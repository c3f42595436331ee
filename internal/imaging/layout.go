package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// PadToHeight places a glyph on a transparent canvas of the given
// height. A glyph taller than the canvas is first scaled down to fit,
// preserving aspect ratio. The glyph sits at its centered position
// displaced by offset pixels, clamped so it never leaves the canvas.
func PadToHeight(img *image.NRGBA, height, offset int) *image.NRGBA {
	if img.Rect.Dy() > height {
		w := img.Rect.Dx() * height / img.Rect.Dy()
		if w < 1 {
			w = 1
		}
		img = imaging.Resize(img, w, height, imaging.Linear)
		DeriveAlpha(img)
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	top := (height-h)/2 + offset
	if top < 0 {
		top = 0
	}
	if top > height-h {
		top = height - h
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, height))
	for y := 0; y < h; y++ {
		copy(out.Pix[(y+top)*out.Stride:(y+top)*out.Stride+w*4],
			img.Pix[y*img.Stride:y*img.Stride+w*4])
	}
	return out
}

// HStack concatenates equal-height cells horizontally, inserting a
// zero-filled spacer of spacers[i] pixels after cell i. The spacer
// slice has one entry fewer than cells; no spacer follows the last
// cell. Negative spacer widths are treated as zero.
func HStack(cells []*image.NRGBA, spacers []int) *image.NRGBA {
	if len(cells) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}

	height := cells[0].Rect.Dy()
	width := 0
	for i, c := range cells {
		width += c.Rect.Dx()
		if i < len(spacers) && spacers[i] > 0 {
			width += spacers[i]
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	x := 0
	for i, c := range cells {
		cw := c.Rect.Dx()
		for y := 0; y < height; y++ {
			copy(out.Pix[y*out.Stride+x*4:y*out.Stride+(x+cw)*4],
				c.Pix[y*c.Stride:y*c.Stride+cw*4])
		}
		x += cw
		if i < len(spacers) && spacers[i] > 0 {
			x += spacers[i]
		}
	}
	return out
}
