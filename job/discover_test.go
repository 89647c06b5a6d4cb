package job

import (
	"os"
	"path/filepath"
	"testing"

	"appshots/models"
)

func TestSelectTopN(t *testing.T) {
	images := []models.SourceImage{
		{Path: "a", Size: 500},
		{Path: "b", Size: 200},
		{Path: "c", Size: 800},
		{Path: "d", Size: 500},
	}

	got := SelectTopN(images, 10)
	want := []string{"c", "a", "d", "b"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d images, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Path != w {
			t.Errorf("Position %d: expected %s, got %s", i, w, got[i].Path)
		}
	}

	if images[0].Path != "a" || images[2].Path != "c" {
		t.Error("SelectTopN should not reorder its input")
	}

	top2 := SelectTopN(images, 2)
	if len(top2) != 2 || top2[0].Path != "c" || top2[1].Path != "a" {
		t.Errorf("Expected [c a], got %+v", top2)
	}

	if got := SelectTopN(images, 0); len(got) != 0 {
		t.Errorf("Expected nothing for n=0, got %d", len(got))
	}
	if got := SelectTopN(nil, 10); len(got) != 0 {
		t.Errorf("Expected nothing for empty input, got %d", len(got))
	}
}

func TestSelectTopNNonIncreasing(t *testing.T) {
	var images []models.SourceImage
	for i, size := range []int64{7, 3, 9, 1, 9, 4, 6, 2, 8, 5, 0, 10} {
		images = append(images, models.SourceImage{Path: string(rune('a' + i)), Size: size})
	}
	got := SelectTopN(images, 10)
	if len(got) != 10 {
		t.Fatalf("Expected 10, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Size < got[i].Size {
			t.Errorf("Selection not non-increasing at %d: %d < %d", i, got[i-1].Size, got[i].Size)
		}
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	sizeA := writeNoisePNG(t, filepath.Join(dir, "IMG_0001_1206x2622.png"), 4, 4, 1)
	writeNoisePNG(t, filepath.Join(dir, "IMG_0002_1206x2622.png"), 5, 5, 2)
	writeNoisePNG(t, filepath.Join(dir, "IMG_0003_1170x2532.png"), 5, 5, 3)
	writeNoisePNG(t, filepath.Join(dir, "cover.png"), 5, 5, 4)
	if err := os.Mkdir(filepath.Join(dir, "IMG_dir_1206x2622.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := Discover(dir, "IMG_*_1206x2622.png")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Expected 2 matches, got %d: %+v", len(found), found)
	}
	for _, img := range found {
		if filepath.Base(img.Path) == "IMG_0001_1206x2622.png" && img.Size != sizeA {
			t.Errorf("Expected size %d, got %d", sizeA, img.Size)
		}
	}
}

func TestDiscoverEmpty(t *testing.T) {
	found, err := Discover(t.TempDir(), "IMG_*_1206x2622.png")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("Expected no matches, got %d", len(found))
	}

	found, err = Discover(filepath.Join(t.TempDir(), "missing"), "IMG_*.png")
	if err != nil {
		t.Fatalf("Missing directory should not be an error, got %v", err)
	}
	if len(found) != 0 {
		t.Errorf("Expected no matches, got %d", len(found))
	}
}

func TestDiscoverBadPattern(t *testing.T) {
	if _, err := Discover(t.TempDir(), "IMG_[_1206x2622.png"); err == nil {
		t.Error("Expected error for malformed pattern")
	}
}
