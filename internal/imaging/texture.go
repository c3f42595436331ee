package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// TextureInk substitutes a texture for bare glyph ink: the texture is
// resized to the glyph's dimensions with linear interpolation and each
// output channel is texture × (ink/255). The alpha byte is the ink
// value itself, so stroke shape is preserved exactly.
//
// This is the per-character texture path; see TextureBlend for the
// opacity-weighted path used on already-colored images.
func TextureInk(ink *image.Gray, texture image.Image) *image.NRGBA {
	w, h := ink.Rect.Dx(), ink.Rect.Dy()
	tex := imaging.Resize(texture, w, h, imaging.Linear)

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint32(ink.Pix[y*ink.Stride+x])
			tOff := y*tex.Stride + x*4
			off := y*out.Stride + x*4
			out.Pix[off] = uint8(uint32(tex.Pix[tOff]) * v / 255)
			out.Pix[off+1] = uint8(uint32(tex.Pix[tOff+1]) * v / 255)
			out.Pix[off+2] = uint8(uint32(tex.Pix[tOff+2]) * v / 255)
			out.Pix[off+3] = uint8(v)
		}
	}
	return out
}

// TextureBlend blends a texture over an already-colored image:
//
//	out = orig × (1 − opacity·α) + texture × (opacity·α)
//
// where α is the image's stored derived alpha divided by 255. Pixels
// with no ink (α = 0) are untouched, so the background stays clean.
// The alpha byte itself is not modified by the blend; compositing
// continues to see the pre-blend mask.
func TextureBlend(img *image.NRGBA, texture image.Image, opacity float64) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	tex := imaging.Resize(texture, w, h, imaging.Linear)

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(out.Pix, img.Pix)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*out.Stride + x*4
			wgt := opacity * float64(img.Pix[off+3]) / 255
			if wgt == 0 {
				continue
			}
			tOff := y*tex.Stride + x*4
			for c := 0; c < 3; c++ {
				orig := float64(img.Pix[off+c])
				t := float64(tex.Pix[tOff+c])
				out.Pix[off+c] = uint8(orig*(1-wgt) + t*wgt + 0.5)
			}
		}
	}
	return out
}
