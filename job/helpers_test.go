package job

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"appshots/config"
	"appshots/models"
)

// writeNoisePNG writes a w×h PNG of random pixels. Noise does not compress,
// so larger images give reliably larger files.
func writeNoisePNG(t *testing.T, path string, w, h int, seed int64) int64 {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	return info.Size()
}

func sourceName(n int) string {
	return "IMG_" + string(rune('A'+n)) + "_1206x2622.png"
}

// testConfig returns a config rooted in a temp dir with two small targets.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.SourceDir = filepath.Join(root, "attached_assets")
	cfg.Targets = []models.TargetSpec{
		{Name: "6.7-inch", Label: `iPhone 6.7"`, Dir: filepath.Join(root, "out", "iphone-6.7"), Width: 13, Height: 28},
		{Name: "6.5-inch", Label: `iPhone 6.5"`, Dir: filepath.Join(root, "out", "iphone-6.5"), Width: 12, Height: 27},
	}
	if err := os.MkdirAll(cfg.SourceDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func pngSize(t *testing.T, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("%s is not a PNG: %v", path, err)
	}
	return image.Pt(cfg.Width, cfg.Height)
}
