package generator

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// maxNameRunes bounds the sanitized text prefix of auto-generated
// filenames; the md5 suffix keeps long-text collisions apart anyway.
const maxNameRunes = 20

// Save writes a result image and, when configured, its label sidecar.
// An empty filename derives one from the text; an empty outputDir uses
// the configured output directory. It returns the image path.
func (g *Generator) Save(res *Result, filename, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = g.cfg.Output.Dir
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	format := strings.ToLower(g.cfg.Output.Format)
	if filename == "" {
		filename = autoFilename(res.Text, format)
	}
	path := filepath.Join(outputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	switch format {
	case "jpg", "jpeg":
		err = jpeg.Encode(f, res.Image, &jpeg.Options{Quality: g.cfg.Output.Quality})
	default:
		err = png.Encode(f, res.Image)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if g.cfg.Output.CreateLabels {
		if err := g.saveLabel(res, path); err != nil {
			return "", err
		}
	}
	return path, nil
}

// saveLabel writes the sidecar next to the image, swapping the
// extension for the label format.
func (g *Generator) saveLabel(res *Result, imagePath string) error {
	base := strings.TrimSuffix(imagePath, filepath.Ext(imagePath))

	var (
		path string
		data []byte
	)
	switch g.cfg.Output.LabelFormat {
	case "json":
		path = base + ".json"
		payload := struct {
			Text   string   `json:"text"`
			Labels []string `json:"labels"`
			Seed   int64    `json:"seed"`
		}{res.Text, res.Labels, res.Seed}
		var err error
		data, err = json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode label: %w", err)
		}
	default:
		path = base + ".txt"
		data = []byte(res.Text)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write label %s: %w", path, err)
	}
	return nil
}

// autoFilename derives "<sanitized-text>_<md5-8>.<ext>". Non-alphanumeric
// runes become underscores so any text yields a portable filename.
func autoFilename(text, format string) string {
	var b strings.Builder
	n := 0
	for _, r := range text {
		if n >= maxNameRunes {
			break
		}
		n++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	sum := md5.Sum([]byte(text))
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s_%s.%s", b.String(), hex.EncodeToString(sum[:])[:8], ext)
}
