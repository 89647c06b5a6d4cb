package job

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"appshots/logger"
	"appshots/models"
)

// Discover returns the files in dir matching pattern with their sizes, in
// glob order. A missing directory or no match yields an empty slice.
func Discover(dir, pattern string) ([]models.SourceImage, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad source pattern %q: %w", pattern, err)
	}

	images := make([]models.SourceImage, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			logger.Debugf("skipping directory %s", path)
			continue
		}
		images = append(images, models.SourceImage{Path: path, Size: info.Size()})
	}
	return images, nil
}

// SelectTopN returns up to n images ordered by descending size. Equal sizes
// keep their discovery order. The input slice is not modified.
func SelectTopN(images []models.SourceImage, n int) []models.SourceImage {
	if n <= 0 {
		return nil
	}

	sorted := slices.Clone(images)
	slices.SortStableFunc(sorted, func(a, b models.SourceImage) int {
		return cmp.Compare(b.Size, a.Size)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
