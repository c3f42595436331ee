package imaging

import (
	"image"
)

// Ink normalizes a decoded source image to the single-channel ink
// representation: background exactly 0, strokes greater than 0.
//
// The normalization depends on the source's color model:
//   - images with an alpha channel: inverted BT.601 luminance of the
//     color channels, forced to 0 wherever source alpha is 0;
//   - opaque color images: inverted luminance;
//   - grayscale images: inverted intensity.
//
// Dark-on-white scans and light-on-transparent cutouts therefore
// converge to the same semantics.
func Ink(src image.Image) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := src.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			if a == 0 {
				continue // background stays 0
			}
			// BT.601 luminance on 8-bit components. RGBA() returns
			// premultiplied values; un-premultiply so partially
			// transparent strokes keep their source intensity.
			r8 := uint32(r) * 0xffff / a >> 8
			g8 := uint32(g) * 0xffff / a >> 8
			b8 := uint32(b) * 0xffff / a >> 8
			lum := (299*r8 + 587*g8 + 114*b8) / 1000
			if lum > 255 {
				lum = 255
			}
			out.Pix[y*out.Stride+x] = 255 - uint8(lum)
		}
	}
	return out
}

// InkBounds returns the tight bounding box of non-zero ink, and false
// if the image holds no ink at all.
func InkBounds(ink *image.Gray) (image.Rectangle, bool) {
	b := ink.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := ink.Pix[(y-b.Min.Y)*ink.Stride : (y-b.Min.Y)*ink.Stride+b.Dx()]
		for x, v := range row {
			if v == 0 {
				continue
			}
			px := b.Min.X + x
			if px < minX {
				minX = px
			}
			if px > maxX {
				maxX = px
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// TrimInk crops ink to its non-zero bounding box. It returns nil when
// the image is entirely background.
func TrimInk(ink *image.Gray) *image.Gray {
	r, ok := InkBounds(ink)
	if !ok {
		return nil
	}

	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		srcOff := (r.Min.Y - ink.Rect.Min.Y + y) * ink.Stride
		srcOff += r.Min.X - ink.Rect.Min.X
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()], ink.Pix[srcOff:srcOff+r.Dx()])
	}
	return out
}
