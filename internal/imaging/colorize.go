package imaging

import (
	"image"
)

// Colorize builds a colored glyph from ink: each channel is
// ink/255 × value, so stroke intensity scales the target color and
// background stays black. The alpha byte is set to the channel maximum
// (the derived-alpha invariant).
func Colorize(ink *image.Gray, r, g, b uint8) *image.NRGBA {
	w, h := ink.Rect.Dx(), ink.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint32(ink.Pix[y*ink.Stride+x])
			cr := uint8(v * uint32(r) / 255)
			cg := uint8(v * uint32(g) / 255)
			cb := uint8(v * uint32(b) / 255)

			off := y*out.Stride + x*4
			out.Pix[off] = cr
			out.Pix[off+1] = cg
			out.Pix[off+2] = cb
			out.Pix[off+3] = maxChannel(cr, cg, cb)
		}
	}
	return out
}

// Grayscale3 replicates ink across the three color channels, used when
// no color directive applies. The alpha byte equals the ink value,
// which is also the channel maximum.
func Grayscale3(ink *image.Gray) *image.NRGBA {
	w, h := ink.Rect.Dx(), ink.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := ink.Pix[y*ink.Stride+x]
			off := y*out.Stride + x*4
			out.Pix[off] = v
			out.Pix[off+1] = v
			out.Pix[off+2] = v
			out.Pix[off+3] = v
		}
	}
	return out
}

// DeriveAlpha rewrites the alpha byte of every pixel to the maximum of
// its color channels, restoring the derived-alpha invariant after an
// operation that interpolated all four channels independently.
func DeriveAlpha(img *image.NRGBA) {
	for off := 0; off+3 < len(img.Pix); off += 4 {
		img.Pix[off+3] = maxChannel(img.Pix[off], img.Pix[off+1], img.Pix[off+2])
	}
}

func maxChannel(r, g, b uint8) uint8 {
	m := r
	if g > m {
		m = g
	}
	if b > m {
		m = b
	}
	return m
}
