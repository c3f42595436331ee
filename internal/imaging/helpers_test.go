package imaging

import (
	"image"
	"image/color"
)

// solidInk returns a w×h ink buffer filled with value v.
func solidInk(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// blockInk returns a w×h ink buffer with a filled rectangle of full
// ink and zero elsewhere.
func blockInk(w, h int, block image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := block.Min.Y; y < block.Max.Y; y++ {
		for x := block.Min.X; x < block.Max.X; x++ {
			img.Pix[y*img.Stride+x] = 255
		}
	}
	return img
}

// solidNRGBA returns a w×h image filled with c, alpha included.
func solidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// countInk returns the number of non-zero pixels in an ink buffer.
func countInk(img *image.Gray) int {
	n := 0
	for _, v := range img.Pix {
		if v > 0 {
			n++
		}
	}
	return n
}
