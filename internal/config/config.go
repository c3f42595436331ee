// Package config defines the configuration value objects consumed by the
// generation pipeline, plus JSON/YAML file load/save and validation.
//
// A Config is immutable for the duration of a Generate call. Validation
// runs at construction time (see Validate), so malformed ranges fail
// before any generation starts rather than mid-pipeline.
//
// Range fields are fixed two-element arrays serialized as [min, max]
// pairs; decoding a tuple of any other length is rejected by the codec
// itself. Colors are "#RRGGBB" hex strings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/typebake/typebake/internal/random"
)

// Transform holds the per-glyph and composite geometric augmentation
// ranges, in degrees for angles and ratios for scale.
type Transform struct {
	// RotationRange is the min/max rotation angle in degrees.
	RotationRange [2]float64 `json:"rotation_range" yaml:"rotation_range"`

	// PerspectiveRange is the min/max perspective distortion angle.
	PerspectiveRange [2]float64 `json:"perspective_range" yaml:"perspective_range"`

	// ScaleRange is the min/max uniform scale factor.
	ScaleRange [2]float64 `json:"scale_range" yaml:"scale_range"`

	// ShearRange is the min/max x-axis shear angle in degrees.
	ShearRange [2]float64 `json:"shear_range" yaml:"shear_range"`
}

// Color controls glyph recoloring. When RandomColor is set, each channel
// is sampled independently from its range; otherwise FixedColor (if any)
// is applied; otherwise ink is replicated to gray.
type Color struct {
	RandomColor bool   `json:"random_color" yaml:"random_color"`
	RangeR      [2]int `json:"color_range_r" yaml:"color_range_r"`
	RangeG      [2]int `json:"color_range_g" yaml:"color_range_g"`
	RangeB      [2]int `json:"color_range_b" yaml:"color_range_b"`

	// FixedColor is a "#RRGGBB" hex string, empty for none.
	FixedColor string `json:"fixed_color,omitempty" yaml:"fixed_color,omitempty"`
}

// Texture controls texture application. PerCharacter applies the texture
// to each glyph's bare ink; otherwise the texture is opacity-blended
// over the whole composite.
type Texture struct {
	Enabled      bool    `json:"enabled" yaml:"enabled"`
	Dir          string  `json:"texture_dir,omitempty" yaml:"texture_dir,omitempty"`
	PerCharacter bool    `json:"per_character" yaml:"per_character"`
	Opacity      float64 `json:"opacity" yaml:"opacity"`
}

// Background controls compositing of the finished text image onto a
// backdrop. A solid Color takes priority over Dir; with neither set the
// background defaults to white.
type Background struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	Dir        string `json:"background_dir,omitempty" yaml:"background_dir,omitempty"`
	Color      string `json:"color,omitempty" yaml:"color,omitempty"`
	RandomCrop bool   `json:"random_crop" yaml:"random_crop"`
}

// Dataset describes where character samples live. In recursive mode the
// directory name is the label; in flat mode the file stem is.
type Dataset struct {
	Dir        string   `json:"dataset_dir" yaml:"dataset_dir"`
	Recursive  bool     `json:"recursive" yaml:"recursive"`
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// Character configures fallback rendering for labels absent from the
// dataset. Font is either "builtin" for the embedded bitmap face or a
// path to a .ttf file.
type Character struct {
	Width     int    `json:"width" yaml:"width"`
	Height    int    `json:"height" yaml:"height"`
	Font      string `json:"font" yaml:"font"`
	Thickness int    `json:"thickness" yaml:"thickness"`
}

// Layout configures the horizontal compositor.
type Layout struct {
	// CanvasHeight is the fixed height of the composite strip.
	CanvasHeight int `json:"canvas_height" yaml:"canvas_height"`

	// MaxVerticalOffset bounds the per-glyph vertical jitter; zero
	// disables jitter entirely (and consumes no random draw).
	MaxVerticalOffset int `json:"max_vertical_offset" yaml:"max_vertical_offset"`

	// MarginRange, when non-degenerate, samples the inter-glyph gap per
	// pair; a degenerate range falls back to the fixed Spacing value.
	MarginRange [2]int `json:"margin_range" yaml:"margin_range"`
}

// Output configures image and label persistence.
type Output struct {
	Dir          string `json:"output_dir" yaml:"output_dir"`
	Format       string `json:"format" yaml:"format"`
	Quality      int    `json:"quality" yaml:"quality"`
	CreateLabels bool   `json:"create_labels" yaml:"create_labels"`
	LabelFormat  string `json:"label_format" yaml:"label_format"`
}

// Config is the root configuration for a generator.
type Config struct {
	Seed       int64      `json:"seed" yaml:"seed"`
	TextLength [2]int     `json:"text_length" yaml:"text_length"`
	Spacing    int        `json:"spacing" yaml:"spacing"`
	FontScale  float64    `json:"font_scale" yaml:"font_scale"`
	Dataset    Dataset    `json:"dataset" yaml:"dataset"`
	Transform  Transform  `json:"transform" yaml:"transform"`
	Color      Color      `json:"color" yaml:"color"`
	Texture    Texture    `json:"texture" yaml:"texture"`
	Background Background `json:"background" yaml:"background"`
	Layout     Layout     `json:"layout" yaml:"layout"`
	Character  Character  `json:"character" yaml:"character"`
	Output     Output     `json:"output" yaml:"output"`
}

// Default returns the stock configuration: seed 42, no geometric
// augmentation except a mild scale jitter, no color/texture/background,
// PNG output with .txt label sidecars.
func Default() Config {
	return Config{
		Seed:       random.DefaultSeed,
		TextLength: [2]int{1, 10},
		Spacing:    0,
		FontScale:  1.0,
		Dataset: Dataset{
			Dir:        "assets/dataset",
			Recursive:  true,
			Extensions: []string{".png", ".jpg", ".jpeg", ".bmp"},
		},
		Transform: Transform{
			ScaleRange: [2]float64{0.9, 1.1},
		},
		Color: Color{
			RangeR: [2]int{0, 255},
			RangeG: [2]int{0, 255},
			RangeB: [2]int{0, 255},
		},
		Texture: Texture{
			Opacity: 1.0,
		},
		Background: Background{
			RandomCrop: true,
		},
		Layout: Layout{
			CanvasHeight: 64,
		},
		Character: Character{
			Width:     64,
			Height:    64,
			Font:      "builtin",
			Thickness: 2,
		},
		Output: Output{
			Dir:          "output",
			Format:       "png",
			Quality:      95,
			CreateLabels: true,
			LabelFormat:  "txt",
		},
	}
}

// Validate checks every range and enum field. It returns the first
// problem found, before any generation starts.
func (c *Config) Validate() error {
	if c.TextLength[0] < 1 || c.TextLength[0] > c.TextLength[1] {
		return fmt.Errorf("text_length [%d,%d]: min must be >= 1 and <= max",
			c.TextLength[0], c.TextLength[1])
	}

	floatRanges := []struct {
		name string
		r    [2]float64
	}{
		{"rotation_range", c.Transform.RotationRange},
		{"perspective_range", c.Transform.PerspectiveRange},
		{"scale_range", c.Transform.ScaleRange},
		{"shear_range", c.Transform.ShearRange},
	}
	for _, fr := range floatRanges {
		if fr.r[0] > fr.r[1] {
			return fmt.Errorf("%s [%g,%g]: min must be <= max", fr.name, fr.r[0], fr.r[1])
		}
	}

	intRanges := []struct {
		name string
		r    [2]int
	}{
		{"color_range_r", c.Color.RangeR},
		{"color_range_g", c.Color.RangeG},
		{"color_range_b", c.Color.RangeB},
		{"margin_range", c.Layout.MarginRange},
	}
	for _, ir := range intRanges {
		if ir.r[0] > ir.r[1] {
			return fmt.Errorf("%s [%d,%d]: min must be <= max", ir.name, ir.r[0], ir.r[1])
		}
	}

	if c.Texture.Opacity < 0 || c.Texture.Opacity > 1 {
		return fmt.Errorf("texture opacity %g: must be in [0,1]", c.Texture.Opacity)
	}

	if c.Color.FixedColor != "" {
		if _, err := ParseHexColor(c.Color.FixedColor); err != nil {
			return fmt.Errorf("fixed_color: %w", err)
		}
	}
	if c.Background.Color != "" {
		if _, err := ParseHexColor(c.Background.Color); err != nil {
			return fmt.Errorf("background color: %w", err)
		}
	}

	if c.Character.Width < 1 || c.Character.Height < 1 {
		return fmt.Errorf("character size %dx%d: must be positive",
			c.Character.Width, c.Character.Height)
	}
	if c.Character.Thickness < 1 {
		return fmt.Errorf("character thickness %d: must be >= 1", c.Character.Thickness)
	}
	if c.Layout.CanvasHeight < 1 {
		return fmt.Errorf("canvas_height %d: must be >= 1", c.Layout.CanvasHeight)
	}
	if c.Layout.MaxVerticalOffset < 0 {
		return fmt.Errorf("max_vertical_offset %d: must be >= 0", c.Layout.MaxVerticalOffset)
	}
	if c.FontScale <= 0 {
		return fmt.Errorf("font_scale %g: must be positive", c.FontScale)
	}

	switch strings.ToLower(c.Output.Format) {
	case "png", "jpg", "jpeg":
	default:
		return fmt.Errorf("output format %q: must be png, jpg, or jpeg", c.Output.Format)
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output quality %d: must be in [1,100]", c.Output.Quality)
	}
	switch c.Output.LabelFormat {
	case "txt", "json":
	default:
		return fmt.Errorf("label format %q: must be txt or json", c.Output.LabelFormat)
	}

	return nil
}

// RGB is an 8-bit color triple decoded from a config hex string.
type RGB struct {
	R, G, B uint8
}

// ParseHexColor decodes a "#RRGGBB" string.
func ParseHexColor(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Load reads a configuration file, layering it over Default() so
// unspecified fields keep their defaults. The format is chosen by
// extension: .yaml/.yml for YAML, anything else is treated as JSON.
// The result is validated before being returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a JSON or YAML file, creating parent
// directories as needed. The format is chosen by extension as in Load.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
