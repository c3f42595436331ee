// Package render synthesizes glyph ink for characters that have no
// dataset sample, using either the built-in bitmap face or a TrueType
// font named by the character configuration.
package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/typebake/typebake/internal/imaging"
)

// BuiltinFont is the font name selecting the embedded monospace
// bitmap face instead of a TrueType file.
const BuiltinFont = "builtin"

// fitFraction caps the rendered glyph at this share of the canvas in
// each dimension; larger glyphs are shrunk proportionally.
const fitFraction = 0.9

// Fallback renders single characters centered on a transparent canvas
// of fixed size. The zero background / positive ink convention matches
// dataset-sourced glyphs, so fallback output flows through the same
// pipeline stages.
type Fallback struct {
	width     int
	height    int
	thickness int
	fontScale float64
	ttf       *truetype.Font // nil selects the builtin bitmap face
}

// NewFallback builds a renderer for the given canvas size. fontName is
// either BuiltinFont or a path to a .ttf file. Thickness fakes stroke
// weight on the builtin bitmap face by overdrawing at one-pixel
// offsets; TrueType faces carry their own weight and ignore it.
func NewFallback(width, height int, fontName string, thickness int, fontScale float64) (*Fallback, error) {
	f := &Fallback{
		width:     width,
		height:    height,
		thickness: thickness,
		fontScale: fontScale,
	}

	if fontName != "" && fontName != BuiltinFont {
		if !strings.HasSuffix(strings.ToLower(fontName), ".ttf") {
			return nil, fmt.Errorf("fallback font %q: must be %q or a .ttf path", fontName, BuiltinFont)
		}
		data, err := os.ReadFile(fontName)
		if err != nil {
			return nil, fmt.Errorf("failed to read fallback font: %w", err)
		}
		ttf, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fallback font: %w", err)
		}
		f.ttf = ttf
	}
	return f, nil
}

// Size returns the canvas dimensions of rendered glyphs.
func (f *Fallback) Size() (int, int) {
	return f.width, f.height
}

// Render draws one character centered in the canvas and returns its
// ink. The glyph is auto-scaled so it never exceeds 90% of either
// canvas dimension.
func (f *Fallback) Render(char string) *image.Gray {
	if f.ttf != nil {
		return f.renderTrueType(char)
	}
	return f.renderBuiltin(char)
}

// renderBuiltin rasterizes with the embedded 7x13 monospace face at
// its native size, then resizes the tight glyph to the target scale
// and centers it.
func (f *Fallback) renderBuiltin(char string) *image.Gray {
	face := basicfont.Face7x13

	adv := font.MeasureString(face, char).Ceil()
	if adv < 1 {
		adv = 1
	}
	tightW := adv + f.thickness - 1
	tightH := face.Height

	tight := image.NewGray(image.Rect(0, 0, tightW, tightH))
	for i := 0; i < f.thickness; i++ {
		d := font.Drawer{
			Dst:  tight,
			Src:  image.NewUniform(color.White),
			Face: face,
			Dot:  fixed.P(i, face.Ascent),
		}
		d.DrawString(char)
	}

	// Base scale follows the canvas size, roughly doubling the 13-pixel
	// bitmap face for a 64-pixel canvas before the fit cap applies.
	scale := float64(minInt(f.width, f.height)) / 40 * f.fontScale
	targetW := float64(tightW) * scale * 2
	targetH := float64(tightH) * scale * 2

	maxW := fitFraction * float64(f.width)
	maxH := fitFraction * float64(f.height)
	if targetW > maxW || targetH > maxH {
		shrink := minFloat(maxW/targetW, maxH/targetH)
		targetW *= shrink
		targetH *= shrink
	}

	glyph := imaging.ResizeInk(tight, atLeast1(targetW), atLeast1(targetH))
	return f.center(glyph)
}

// renderTrueType rasterizes through a gg context with a face sized to
// the canvas, shrinking the point size when the measured string would
// exceed the fit cap.
func (f *Fallback) renderTrueType(char string) *image.Gray {
	points := float64(minInt(f.width, f.height)) * 0.8 * f.fontScale

	ctx := gg.NewContext(f.width, f.height)
	face := truetype.NewFace(f.ttf, &truetype.Options{Size: points})
	ctx.SetFontFace(face)

	tw, th := ctx.MeasureString(char)
	maxW := fitFraction * float64(f.width)
	maxH := fitFraction * float64(f.height)
	if tw > maxW || th > maxH {
		points *= minFloat(maxW/tw, maxH/th)
		face = truetype.NewFace(f.ttf, &truetype.Options{Size: points})
		ctx.SetFontFace(face)
	}

	ctx.SetColor(color.White)
	ctx.DrawStringAnchored(char, float64(f.width)/2, float64(f.height)/2, 0.5, 0.5)

	// White-on-transparent: the rasterized coverage is the ink.
	rgba, ok := ctx.Image().(*image.RGBA)
	if !ok {
		return image.NewGray(image.Rect(0, 0, f.width, f.height))
	}
	ink := image.NewGray(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			ink.Pix[y*ink.Stride+x] = rgba.Pix[y*rgba.Stride+x*4+3]
		}
	}
	return ink
}

// center places a glyph in the middle of a fresh canvas.
func (f *Fallback) center(glyph *image.Gray) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, f.width, f.height))

	gw, gh := glyph.Rect.Dx(), glyph.Rect.Dy()
	x0 := (f.width - gw) / 2
	y0 := (f.height - gh) / 2
	for y := 0; y < gh; y++ {
		for x := 0; x < gw; x++ {
			ox, oy := x0+x, y0+y
			if ox < 0 || oy < 0 || ox >= f.width || oy >= f.height {
				continue
			}
			out.Pix[oy*out.Stride+ox] = glyph.Pix[y*glyph.Stride+x]
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func atLeast1(v float64) int {
	n := int(v)
	if n < 1 {
		return 1
	}
	return n
}
