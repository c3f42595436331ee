package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/typebake/typebake/internal/config"
)

// writeSample writes a white image with a black block, the "dark glyph
// on light paper" shape the ink extractor expects.
func writeSample(t *testing.T, path string) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	for y := 4; y < 12; y++ {
		for x := 4; x < 12; x++ {
			img.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// testConfig returns a config with augmentation disabled and the
// dataset pointed at a directory holding samples for A and B.
func testConfig(t *testing.T) config.Config {
	t.Helper()

	dir := t.TempDir()
	writeSample(t, filepath.Join(dir, "A", "a1.png"))
	writeSample(t, filepath.Join(dir, "A", "a2.png"))
	writeSample(t, filepath.Join(dir, "B", "b1.png"))

	cfg := config.Default()
	cfg.Dataset.Dir = dir
	cfg.Transform.ScaleRange = [2]float64{1, 1}
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func mustGenerate(t *testing.T, g *Generator, text string) *Result {
	t.Helper()
	res, err := g.Generate(text)
	if err != nil {
		t.Fatalf("Generate(%q) failed: %v", text, err)
	}
	return res
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := testConfig(t)
	cfg.Seed = 7
	cfg.Transform.RotationRange = [2]float64{-5, 5}
	cfg.Transform.ScaleRange = [2]float64{0.9, 1.1}
	cfg.Layout.MaxVerticalOffset = 3
	cfg.Color.RandomColor = true

	g1, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	a := mustGenerate(t, g1, "ABAB")
	b := mustGenerate(t, g2, "ABAB")

	if !bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Error("same config and seed must produce byte-identical images")
	}
}

func TestGenerate_SeedsDiffer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transform.RotationRange = [2]float64{-15, 15}
	cfg.Color.RandomColor = true

	cfg.Seed = 1
	g1, _ := New(cfg)
	cfg.Seed = 2
	g2, _ := New(cfg)

	a := mustGenerate(t, g1, "AB")
	b := mustGenerate(t, g2, "AB")

	if len(a.Image.Pix) == len(b.Image.Pix) && bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Error("different seeds should not produce identical images")
	}
}

func TestGenerate_LengthContract(t *testing.T) {
	g, _ := New(testConfig(t))

	res := mustGenerate(t, g, "ABABA")
	if res.Text != "ABABA" {
		t.Errorf("text: got %q", res.Text)
	}
	if len(res.Labels) != 5 {
		t.Fatalf("labels: got %d, want 5", len(res.Labels))
	}
	for i, want := range []string{"A", "B", "A", "B", "A"} {
		if res.Labels[i] != want {
			t.Errorf("label %d: got %q, want %q", i, res.Labels[i], want)
		}
	}
}

func TestGenerate_EmptyText(t *testing.T) {
	g, _ := New(testConfig(t))
	if _, err := g.Generate(""); !errors.Is(err, ErrEmptyText) {
		t.Errorf("got %v, want ErrEmptyText", err)
	}
}

func TestGenerate_SpacingWidens(t *testing.T) {
	cfg := testConfig(t)

	cfg.Spacing = 0
	g0, _ := New(cfg)
	tight := mustGenerate(t, g0, "ABA")

	cfg.Spacing = 10
	g10, _ := New(cfg)
	loose := mustGenerate(t, g10, "ABA")

	if loose.Image.Rect.Dx() < tight.Image.Rect.Dx()+20 {
		t.Errorf("spacing 10 width %d should exceed spacing 0 width %d by 20",
			loose.Image.Rect.Dx(), tight.Image.Rect.Dx())
	}
}

func TestGenerate_FixedColorOverBackground(t *testing.T) {
	cfg := testConfig(t)
	cfg.Color.FixedColor = "#FF0000"
	cfg.Background.Enabled = true
	cfg.Background.Color = "#FFFFFF"

	g, _ := New(cfg)
	res := mustGenerate(t, g, "A")

	sawInk := false
	for i := 0; i < len(res.Image.Pix); i += 4 {
		r := res.Image.Pix[i]
		gr := res.Image.Pix[i+1]
		b := res.Image.Pix[i+2]
		if res.Image.Pix[i+3] != 255 {
			t.Fatal("background composite must be fully opaque")
		}
		if gr != b {
			t.Fatalf("pixel %d: red ink over white keeps G == B, got G=%d B=%d", i/4, gr, b)
		}
		if r < gr {
			t.Fatalf("pixel %d: red channel %d below green %d", i/4, r, gr)
		}
		if r > gr {
			sawInk = true
		}
	}
	if !sawInk {
		t.Error("no red-tinted ink pixels found")
	}
}

func TestGenerate_FallbackForMissingLabel(t *testing.T) {
	g, _ := New(testConfig(t))

	// Z has no dataset samples; the fallback renderer covers it.
	res := mustGenerate(t, g, "Z")
	if res.Image.Rect.Dy() != g.Config().Layout.CanvasHeight {
		t.Errorf("height: got %d, want canvas height %d",
			res.Image.Rect.Dy(), g.Config().Layout.CanvasHeight)
	}

	ink := 0
	for i := 3; i < len(res.Image.Pix); i += 4 {
		if res.Image.Pix[i] > 0 {
			ink++
		}
	}
	if ink == 0 {
		t.Error("fallback-rendered glyph produced no ink")
	}
}

func TestGenerateRandom(t *testing.T) {
	g, _ := New(testConfig(t))

	res, err := g.GenerateRandom(5)
	if err != nil {
		t.Fatalf("GenerateRandom failed: %v", err)
	}
	if len(res.Labels) != 5 {
		t.Errorf("labels: got %d, want 5", len(res.Labels))
	}
	for _, label := range res.Labels {
		if label != "A" && label != "B" {
			t.Errorf("label %q not in dataset", label)
		}
	}
}

func TestGenerateRandom_DrawnLength(t *testing.T) {
	cfg := testConfig(t)
	cfg.TextLength = [2]int{3, 3}

	g, _ := New(cfg)
	res, err := g.GenerateRandom(0)
	if err != nil {
		t.Fatalf("GenerateRandom failed: %v", err)
	}
	if len(res.Labels) != 3 {
		t.Errorf("labels: got %d, want 3 from the degenerate length range", len(res.Labels))
	}
}

func TestGenerateRandom_EmptyDataset(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.Dir = filepath.Join(t.TempDir(), "absent")

	g, _ := New(cfg)
	if _, err := g.GenerateRandom(3); !errors.Is(err, ErrNoCharacters) {
		t.Errorf("got %v, want ErrNoCharacters", err)
	}
}

func TestGenerateBatch_ContinuesPastFailures(t *testing.T) {
	g, _ := New(testConfig(t))

	items := g.GenerateBatch([]string{"AB", "", "BA"})
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].Err != nil || items[2].Err != nil {
		t.Error("valid texts should succeed")
	}
	if !errors.Is(items[1].Err, ErrEmptyText) {
		t.Errorf("empty text item: got %v, want ErrEmptyText", items[1].Err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.LabelFormat = "json"

	g, _ := New(cfg)
	res := mustGenerate(t, g, "AB")

	path, err := g.Save(res, "", "")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("path %q should carry the configured png extension", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("saved image missing: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("saved image does not decode: %v", err)
	}
	if decoded.Bounds() != res.Image.Bounds() {
		t.Errorf("decoded bounds %v differ from result %v", decoded.Bounds(), res.Image.Bounds())
	}

	labelPath := strings.TrimSuffix(path, ".png") + ".json"
	data, err := os.ReadFile(labelPath)
	if err != nil {
		t.Fatalf("label sidecar missing: %v", err)
	}
	var sidecar struct {
		Text   string   `json:"text"`
		Labels []string `json:"labels"`
		Seed   int64    `json:"seed"`
	}
	if err := json.Unmarshal(data, &sidecar); err != nil {
		t.Fatalf("label sidecar does not parse: %v", err)
	}
	if sidecar.Text != "AB" || len(sidecar.Labels) != 2 {
		t.Errorf("sidecar: got %+v", sidecar)
	}
}

func TestSave_TxtLabel(t *testing.T) {
	g, _ := New(testConfig(t))
	res := mustGenerate(t, g, "BA")

	path, err := g.Save(res, "custom.png", "")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(path) != "custom.png" {
		t.Errorf("explicit filename ignored: %q", path)
	}

	data, err := os.ReadFile(strings.TrimSuffix(path, ".png") + ".txt")
	if err != nil {
		t.Fatalf("txt label missing: %v", err)
	}
	if string(data) != "BA" {
		t.Errorf("txt label: got %q, want %q", data, "BA")
	}
}

func TestSave_JPEG(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Format = "jpg"
	cfg.Output.CreateLabels = false

	g, _ := New(cfg)
	res := mustGenerate(t, g, "A")

	path, err := g.Save(res, "", "")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasSuffix(path, ".jpg") {
		t.Errorf("path %q should carry a .jpg extension", path)
	}
}

func TestAvailableCharacters(t *testing.T) {
	g, _ := New(testConfig(t))

	labels, err := g.AvailableCharacters()
	if err != nil {
		t.Fatal(err)
	}
	if len(labels) != 2 || labels[0] != "A" || labels[1] != "B" {
		t.Errorf("got %v, want sorted [A B]", labels)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Transform.RotationRange = [2]float64{10, -10}
	if _, err := New(cfg); err == nil {
		t.Error("New should reject an inverted rotation range")
	}
}

func TestSelectTextureRegion_Overrides(t *testing.T) {
	cfg := testConfig(t)
	cfg.Texture.Enabled = true
	cfg.Texture.Opacity = 1.0
	// No texture directory: without a selected region this is a no-op.

	g, _ := New(cfg)
	plain := mustGenerate(t, g, "A")

	g2, _ := New(cfg)
	region := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(region.Pix); i += 4 {
		region.Pix[i] = 255 // red texture
		region.Pix[i+3] = 255
	}
	g2.SelectTextureRegion(region)
	textured := mustGenerate(t, g2, "A")

	if bytes.Equal(plain.Image.Pix, textured.Image.Pix) {
		t.Error("selected texture region should alter the output")
	}
}

func TestReseed_RepeatsStream(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transform.RotationRange = [2]float64{-10, 10}

	g, _ := New(cfg)
	a := mustGenerate(t, g, "AB")

	g.Reseed(cfg.Seed)
	b := mustGenerate(t, g, "AB")

	if !bytes.Equal(a.Image.Pix, b.Image.Pix) {
		t.Error("reseeding should replay the identical image")
	}
}
