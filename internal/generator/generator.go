// Package generator orchestrates the text-image pipeline: character
// resolution, per-glyph augmentation, horizontal compositing, and
// background application.
//
// Every Generator owns its own random.State; two generators built from
// the same configuration produce identical output streams. The order in
// which random draws are consumed is fixed (see Generate) and forms the
// reproducibility contract: a draw happens if and only if its
// configuration gate is active, never based on defaults alone.
package generator

import (
	"image"
	"log"
	"sort"
	"strings"

	"github.com/typebake/typebake/internal/config"
	"github.com/typebake/typebake/internal/dataset"
	"github.com/typebake/typebake/internal/imaging"
	"github.com/typebake/typebake/internal/random"
	"github.com/typebake/typebake/internal/render"
)

// colorMode is the tagged ink-coloring choice, selected once per
// Generate call from the configuration. Texture and color are mutually
// exclusive per glyph; per-character texture wins over both color modes.
type colorMode int

const (
	colorNone colorMode = iota
	colorRandom
	colorFixed
	texturePerChar
)

// Generator produces synthetic text images from a dataset of character
// samples. It is not safe for concurrent use; for parallel batches give
// each worker its own Generator seeded via random.DeriveSeed.
type Generator struct {
	cfg   config.Config
	rng   *random.State
	cache *dataset.ImageCache

	index       *dataset.Index
	backgrounds []string
	textures    []string
	fallback    *render.Fallback

	// selectedTexture, when set, overrides the texture directory for
	// whole-text blending. See SelectTextureRegion.
	selectedTexture image.Image

	initialized bool
}

// New builds a generator from a validated configuration. The fallback
// renderer is constructed eagerly so a bad font path fails here rather
// than mid-generation; dataset and asset scanning are deferred to the
// first Generate call.
func New(cfg config.Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fb, err := render.NewFallback(cfg.Character.Width, cfg.Character.Height,
		cfg.Character.Font, cfg.Character.Thickness, cfg.FontScale)
	if err != nil {
		return nil, err
	}

	return &Generator{
		cfg:      cfg,
		rng:      random.New(cfg.Seed),
		cache:    dataset.NewImageCache(),
		fallback: fb,
	}, nil
}

// Config returns a copy of the generator's configuration.
func (g *Generator) Config() config.Config {
	return g.cfg
}

// Reseed resets the random stream. Subsequent output repeats as if the
// generator had been constructed with this seed.
func (g *Generator) Reseed(seed int64) {
	g.rng.Reseed(seed)
}

// Initialize scans the dataset and asset directories. It runs at most
// once; Generate calls it lazily.
func (g *Generator) Initialize() error {
	if g.initialized {
		return nil
	}

	idx, err := dataset.Scan(g.cfg.Dataset.Dir, g.cfg.Dataset.Recursive, g.cfg.Dataset.Extensions)
	if err != nil {
		return err
	}
	g.index = idx
	if idx.Len() == 0 {
		log.Printf("warning: no character samples found in %s, relying on fallback rendering", g.cfg.Dataset.Dir)
	} else {
		log.Printf("loaded %d character labels from %s", idx.Len(), g.cfg.Dataset.Dir)
	}

	if g.cfg.Background.Enabled && g.cfg.Background.Dir != "" {
		g.backgrounds = dataset.ListAssets(g.cfg.Background.Dir)
		log.Printf("found %d background images in %s", len(g.backgrounds), g.cfg.Background.Dir)
	}
	if g.cfg.Texture.Enabled && g.cfg.Texture.Dir != "" {
		g.textures = dataset.ListAssets(g.cfg.Texture.Dir)
		log.Printf("found %d texture images in %s", len(g.textures), g.cfg.Texture.Dir)
	}

	g.initialized = true
	return nil
}

// AvailableCharacters returns the sorted labels present in the dataset.
func (g *Generator) AvailableCharacters() ([]string, error) {
	if err := g.Initialize(); err != nil {
		return nil, err
	}
	return g.index.Labels(), nil
}

// SelectTextureRegion registers an externally chosen texture region.
// While set it takes priority over the texture directory for whole-text
// blending and consumes no texture choice draw. Pass nil to clear.
func (g *Generator) SelectTextureRegion(img image.Image) {
	g.selectedTexture = img
}

// Generate renders text into a single image. Randomness is consumed in
// a fixed order per glyph (sample choice, rotation, perspective, shear,
// texture or color, scale), then for layout (vertical offsets, margins),
// then for the composite stages (perspective, texture, background); each
// draw is gated only by its configuration value, so identical configs
// and seeds yield identical pixel buffers.
func (g *Generator) Generate(text string) (*Result, error) {
	if err := g.Initialize(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrEmptyText
	}

	g.warnMissing(text)
	mode := g.colorMode()

	var (
		cells  []*image.NRGBA
		labels []string
	)
	for _, r := range text {
		char := string(r)
		cells = append(cells, g.renderGlyph(char, mode))
		labels = append(labels, char)
	}

	composite := g.compose(cells)

	if pr := g.cfg.Transform.PerspectiveRange; pr[0] != 0 || pr[1] != 0 {
		angle := g.rng.Uniform(pr[0], pr[1])
		composite = imaging.CompositePerspective(composite, angle)
	}

	if g.cfg.Texture.Enabled && !g.cfg.Texture.PerCharacter {
		if tex := g.pickTexture(); tex != nil {
			composite = imaging.TextureBlend(composite, tex, g.cfg.Texture.Opacity)
		}
	}

	if g.cfg.Background.Enabled {
		composite = g.applyBackground(composite)
	}

	return &Result{
		Image:  composite,
		Text:   text,
		Labels: labels,
		Seed:   g.rng.CurrentSeed(),
		Params: g.params(),
	}, nil
}

// GenerateRandom samples a text from the dataset labels and renders it.
// A non-positive length is drawn from the configured text length range.
func (g *Generator) GenerateRandom(length int) (*Result, error) {
	if err := g.Initialize(); err != nil {
		return nil, err
	}
	if g.index.Len() == 0 {
		return nil, ErrNoCharacters
	}

	if length <= 0 {
		length = g.rng.RandInt(g.cfg.TextLength[0], g.cfg.TextLength[1])
	}

	chosen := random.Choices(g.rng, g.index.Labels(), length)
	return g.Generate(strings.Join(chosen, ""))
}

// GenerateBatch renders each text in turn, continuing past individual
// failures. The returned slice has one item per input, in order.
func (g *Generator) GenerateBatch(texts []string) []BatchItem {
	items := make([]BatchItem, 0, len(texts))
	for _, text := range texts {
		res, err := g.Generate(text)
		if err != nil {
			log.Printf("batch: skipping %q: %v", text, err)
		}
		items = append(items, BatchItem{Text: text, Result: res, Err: err})
	}
	return items
}

// warnMissing logs, once per Generate call, the characters that have no
// dataset sample and will be rendered by the fallback.
func (g *Generator) warnMissing(text string) {
	seen := make(map[string]bool)
	var missing []string
	for _, r := range text {
		char := string(r)
		if !seen[char] && !g.index.Has(char) {
			seen[char] = true
			missing = append(missing, char)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		log.Printf("warning: no dataset samples for %v, using fallback renderer", missing)
	}
}

// colorMode resolves the texture/color configuration into a single
// tagged choice for the whole call.
func (g *Generator) colorMode() colorMode {
	switch {
	case g.cfg.Texture.Enabled && g.cfg.Texture.PerCharacter:
		return texturePerChar
	case g.cfg.Color.RandomColor:
		return colorRandom
	case g.cfg.Color.FixedColor != "":
		return colorFixed
	default:
		return colorNone
	}
}

// resolveInk produces the raw ink for one character: a random dataset
// sample when the label is indexed, the fallback renderer otherwise.
// The sample choice draw happens only for indexed labels.
func (g *Generator) resolveInk(char string) *image.Gray {
	if g.index.Has(char) {
		sample, err := random.Choice(g.rng, g.index.Samples(char))
		if err == nil {
			img, err := sample.Load(g.cache)
			if err == nil {
				return imaging.Ink(img)
			}
			log.Printf("warning: failed to load %s: %v, using fallback", sample.Path, err)
		}
	}
	return g.fallback.Render(char)
}

// renderGlyph runs the per-glyph stage chain. A glyph whose ink is
// empty (a space, or an all-background sample) short-circuits to a
// transparent cell of the configured character size.
func (g *Generator) renderGlyph(char string, mode colorMode) *image.NRGBA {
	ink := g.resolveInk(char)

	trimmed := imaging.TrimInk(ink)
	if trimmed == nil {
		return image.NewNRGBA(image.Rect(0, 0, g.cfg.Character.Width, g.cfg.Character.Height))
	}
	ink = trimmed

	t := g.cfg.Transform
	if t.RotationRange[0] != 0 || t.RotationRange[1] != 0 {
		angle := g.rng.Uniform(t.RotationRange[0], t.RotationRange[1])
		ink = imaging.Rotate(ink, angle)
	}
	if t.PerspectiveRange[1] > 0 {
		angle := g.rng.Uniform(t.PerspectiveRange[0], t.PerspectiveRange[1])
		dir, _ := random.Choice(g.rng, imaging.Directions)
		ink = imaging.Perspective(ink, angle, dir)
	}
	if trimmed := imaging.TrimInk(ink); trimmed != nil {
		ink = trimmed
	}
	if t.ShearRange[0] != 0 || t.ShearRange[1] != 0 {
		angle := g.rng.Uniform(t.ShearRange[0], t.ShearRange[1])
		ink = imaging.Shear(ink, angle)
	}

	var cell *image.NRGBA
	switch mode {
	case texturePerChar:
		if tex := g.pickTexture(); tex != nil {
			cell = imaging.TextureInk(ink, tex)
		} else {
			cell = imaging.Grayscale3(ink)
		}
	case colorRandom:
		c := g.cfg.Color
		r := uint8(g.rng.RandInt(c.RangeR[0], c.RangeR[1]))
		gr := uint8(g.rng.RandInt(c.RangeG[0], c.RangeG[1]))
		b := uint8(g.rng.RandInt(c.RangeB[0], c.RangeB[1]))
		cell = imaging.Colorize(ink, r, gr, b)
	case colorFixed:
		rgb, err := config.ParseHexColor(g.cfg.Color.FixedColor)
		if err != nil {
			// Validated at construction; unreachable outside tests that
			// mutate the config directly.
			cell = imaging.Grayscale3(ink)
		} else {
			cell = imaging.Colorize(ink, rgb.R, rgb.G, rgb.B)
		}
	default:
		cell = imaging.Grayscale3(ink)
	}

	if t.ScaleRange[0] != 1 || t.ScaleRange[1] != 1 {
		factor := g.rng.Uniform(t.ScaleRange[0], t.ScaleRange[1])
		cell = imaging.Scale(cell, factor)
	}
	return cell
}

// compose lays the glyph cells out horizontally on a fixed-height
// canvas. All vertical offset draws happen before any margin draw.
func (g *Generator) compose(cells []*image.NRGBA) *image.NRGBA {
	l := g.cfg.Layout

	padded := make([]*image.NRGBA, len(cells))
	for i, cell := range cells {
		offset := 0
		if l.MaxVerticalOffset > 0 {
			offset = g.rng.RandInt(-l.MaxVerticalOffset, l.MaxVerticalOffset)
		}
		padded[i] = imaging.PadToHeight(cell, l.CanvasHeight, offset)
	}

	var spacers []int
	for i := 0; i < len(cells)-1; i++ {
		width := g.cfg.Spacing
		if l.MarginRange[0] != l.MarginRange[1] {
			width = g.rng.RandInt(l.MarginRange[0], l.MarginRange[1])
		}
		spacers = append(spacers, width)
	}

	return imaging.HStack(padded, spacers)
}

// pickTexture returns the texture to apply: the externally selected
// region when set (no draw), else a uniform choice among the texture
// directory files, else nil. Decode failures consume the choice draw
// but degrade to no texture.
func (g *Generator) pickTexture() image.Image {
	if g.selectedTexture != nil {
		return g.selectedTexture
	}
	if len(g.textures) == 0 {
		return nil
	}
	path, err := random.Choice(g.rng, g.textures)
	if err != nil {
		return nil
	}
	img, err := g.cache.Load(path)
	if err != nil {
		log.Printf("warning: failed to load texture %s: %v", path, err)
		return nil
	}
	return img
}

// applyBackground composites the text strip onto its backdrop. A solid
// color takes priority over the background directory; with neither the
// backdrop is white. Random crop draws y then x, and only engages when
// the background covers the composite in both dimensions.
func (g *Generator) applyBackground(composite *image.NRGBA) *image.NRGBA {
	w := composite.Rect.Dx()
	h := composite.Rect.Dy()

	var bg *image.NRGBA
	switch {
	case g.cfg.Background.Color != "":
		rgb, err := config.ParseHexColor(g.cfg.Background.Color)
		if err != nil {
			rgb = config.RGB{R: 255, G: 255, B: 255}
		}
		bg = imaging.SolidBackground(w, h, rgb.R, rgb.G, rgb.B)

	case len(g.backgrounds) > 0:
		path, _ := random.Choice(g.rng, g.backgrounds)
		img, err := g.cache.Load(path)
		if err != nil {
			log.Printf("warning: failed to load background %s: %v", path, err)
			bg = imaging.SolidBackground(w, h, 255, 255, 255)
			break
		}
		bw := img.Bounds().Dx()
		bh := img.Bounds().Dy()
		if g.cfg.Background.RandomCrop && bw >= w && bh >= h {
			y := g.rng.RandInt(0, bh-h)
			x := g.rng.RandInt(0, bw-w)
			bg = imaging.FitBackground(img, w, h, x, y, true)
		} else {
			bg = imaging.FitBackground(img, w, h, 0, 0, false)
		}

	default:
		bg = imaging.SolidBackground(w, h, 255, 255, 255)
	}

	return imaging.CompositeOver(bg, composite)
}

// params echoes the configuration values that shaped this generation.
func (g *Generator) params() map[string]any {
	return map[string]any{
		"seed":       g.cfg.Seed,
		"spacing":    g.cfg.Spacing,
		"transform":  g.cfg.Transform,
		"color":      g.cfg.Color,
		"texture":    g.cfg.Texture,
		"background": g.cfg.Background,
		"layout":     g.cfg.Layout,
	}
}
