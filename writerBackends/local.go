package writerbackends

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"appshots/logger"
)

// WriteToLocal writes reader to {baseDir}/{folder}/{filename}, creating the
// directories as needed and truncating any existing file. Nothing is cleaned
// up if the copy fails part way.
func WriteToLocal(ctx context.Context, accessInfo map[string]string, reader io.Reader) error {
	baseDir := accessInfo["baseDir"]
	folder := accessInfo["folder"]
	filename := accessInfo["filename"]
	if filename == "" {
		return fmt.Errorf("missing required accessInfo key: filename")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	fullDir := filepath.Join(baseDir, folder)
	fullPath := filepath.Join(fullDir, filename)

	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		return fmt.Errorf("failed to write to file %s: %w", fullPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", fullPath, err)
	}

	logger.Debugf("wrote '%s'", fullPath)
	return nil
}
