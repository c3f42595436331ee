package imaging

import (
	"image"
	"math"
)

// PerspectiveDirection selects which edge of the glyph quad is
// displaced by the per-glyph perspective warp.
type PerspectiveDirection string

// The four directions a glyph perspective warp can lean. One is chosen
// uniformly at random per glyph.
const (
	PerspectiveLeft   PerspectiveDirection = "left"
	PerspectiveRight  PerspectiveDirection = "right"
	PerspectiveTop    PerspectiveDirection = "top"
	PerspectiveBottom PerspectiveDirection = "bottom"
)

// Directions lists all perspective directions in the order used for
// random selection.
var Directions = []PerspectiveDirection{
	PerspectiveLeft, PerspectiveRight, PerspectiveTop, PerspectiveBottom,
}

// Perspective warps a single glyph's ink. The corner shift is
// w·tan(angle); the chosen direction displaces two adjacent corners of
// the source quad. The output canvas is the bounding box of the warped
// corners, with negative coordinates translated back into frame, so no
// content is clipped.
func Perspective(ink *image.Gray, angle float64, dir PerspectiveDirection) *image.Gray {
	w := float64(ink.Rect.Dx())
	h := float64(ink.Rect.Dy())
	shift := w * math.Tan(angle*math.Pi/180)

	src := [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}}

	var dst [4][2]float64
	switch dir {
	case PerspectiveLeft:
		dst = [4][2]float64{{shift, 0}, {w, 0}, {w, h}, {0, h}}
	case PerspectiveRight:
		dst = [4][2]float64{{0, 0}, {w - shift, 0}, {w, h}, {shift, h}}
	case PerspectiveTop:
		dst = [4][2]float64{{0, shift}, {w, 0}, {w, h}, {0, h - shift}}
	default: // bottom
		dst = [4][2]float64{{0, 0}, {w, shift}, {w, h - shift}, {0, h}}
	}

	// Canvas-fit: bound the warped corners and translate negatives in.
	minX, minY := dst[0][0], dst[0][1]
	maxX, maxY := dst[0][0], dst[0][1]
	for _, p := range dst[1:] {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
		maxX = math.Max(maxX, p[0])
		maxY = math.Max(maxY, p[1])
	}

	offX := math.Max(0, -minX)
	offY := math.Max(0, -minY)
	for i := range dst {
		dst[i][0] += offX
		dst[i][1] += offY
	}

	outW := int(maxX+offX) + 1 - int(minX+offX)
	outH := int(maxY+offY) + 1 - int(minY+offY)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	inv := homography(dst, src)
	out := image.NewGray(image.Rect(0, 0, outW, outH))
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			sx, sy := applyHomography(inv, float64(x), float64(y))
			out.Pix[y*out.Stride+x] = sampleGray(ink, sx, sy)
		}
	}
	return out
}

// CompositePerspective warps the full composite with the
// sign-directional variant: shift = 0.3·w·sin(|angle|); a positive
// angle pulls the top-left and bottom-right corners inward, a negative
// angle the top-right and bottom-left. The canvas stays exactly w by h,
// so content near the displaced corners may clip. The shift formula and
// direction handling differ from the per-glyph Perspective warp; the
// two are separate on purpose.
func CompositePerspective(img *image.NRGBA, angle float64) *image.NRGBA {
	if angle == 0 {
		return img
	}

	w := float64(img.Rect.Dx())
	h := float64(img.Rect.Dy())
	shift := 0.3 * w * math.Sin(math.Abs(angle)*math.Pi/180)

	src := [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}}

	var dst [4][2]float64
	if angle > 0 {
		dst = [4][2]float64{{shift, 0}, {w, 0}, {w - shift, h}, {0, h}}
	} else {
		dst = [4][2]float64{{0, 0}, {w - shift, 0}, {w, h}, {shift, h}}
	}

	inv := homography(dst, src)
	outW, outH := img.Rect.Dx(), img.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, outW, outH))
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			sx, sy := applyHomography(inv, float64(x), float64(y))
			r, g, b, a := sampleNRGBA(img, sx, sy)
			off := y*out.Stride + x*4
			out.Pix[off] = r
			out.Pix[off+1] = g
			out.Pix[off+2] = b
			out.Pix[off+3] = a
		}
	}
	return out
}

// homography computes the 3x3 projective transform mapping the four
// "from" points onto the four "to" points, via the standard
// direct-linear-transform 8x8 system.
func homography(from, to [4][2]float64) [9]float64 {
	// Unknowns: h0..h7 with h8 fixed at 1.
	var m [8][9]float64
	for i := 0; i < 4; i++ {
		x, y := from[i][0], from[i][1]
		u, v := to[i][0], to[i][1]
		m[2*i] = [9]float64{x, y, 1, 0, 0, 0, -x * u, -y * u, u}
		m[2*i+1] = [9]float64{0, 0, 0, x, y, 1, -x * v, -y * v, v}
	}

	// Gaussian elimination with partial pivoting.
	for col := 0; col < 8; col++ {
		pivot := col
		for row := col + 1; row < 8; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		m[col], m[pivot] = m[pivot], m[col]

		p := m[col][col]
		if p == 0 {
			continue // degenerate quad; identity-ish result is fine
		}
		for k := col; k < 9; k++ {
			m[col][k] /= p
		}
		for row := 0; row < 8; row++ {
			if row == col {
				continue
			}
			f := m[row][col]
			for k := col; k < 9; k++ {
				m[row][k] -= f * m[col][k]
			}
		}
	}

	var h [9]float64
	for i := 0; i < 8; i++ {
		h[i] = m[i][8]
	}
	h[8] = 1
	return h
}

// applyHomography maps (x, y) through h.
func applyHomography(h [9]float64, x, y float64) (float64, float64) {
	d := h[6]*x + h[7]*y + h[8]
	if d == 0 {
		return -1, -1
	}
	return (h[0]*x + h[1]*y + h[2]) / d, (h[3]*x + h[4]*y + h[5]) / d
}

// sampleNRGBA samples all four channels at a fractional coordinate with
// bilinear interpolation; outside the canvas everything is 0.
func sampleNRGBA(img *image.NRGBA, fx, fy float64) (uint8, uint8, uint8, uint8) {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	at := func(x, y, c int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return float64(img.Pix[y*img.Stride+x*4+c])
	}

	var out [4]uint8
	for c := 0; c < 4; c++ {
		v := at(x0, y0, c)*(1-dx)*(1-dy) +
			at(x0+1, y0, c)*dx*(1-dy) +
			at(x0, y0+1, c)*(1-dx)*dy +
			at(x0+1, y0+1, c)*dx*dy
		out[c] = uint8(v + 0.5)
	}
	return out[0], out[1], out[2], out[3]
}
