package job

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"

	"appshots/models"
	writerbackends "appshots/writerBackends"
)

// publishResult mirrors a written artifact to one publish destination.
func publishResult(ctx context.Context, wj models.WriterJob, res models.Result) error {
	reader, err := os.Open(res.Output)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", res.Output, err)
	}
	defer reader.Close()

	accessInfo := prepareAccessInfo(wj, res)
	if err := writerbackends.WriteImage(ctx, accessInfo, reader, wj.Type); err != nil {
		return fmt.Errorf("failed to write %s to %s: %w", res.Output, wj.Type, err)
	}
	return nil
}

// prepareAccessInfo copies the job credentials and sets the destination path
// {prefix}/{target}/{filename} under the key the backend expects.
func prepareAccessInfo(wj models.WriterJob, res models.Result) map[string]string {
	accessInfo := make(map[string]string, len(wj.Credentials)+2)
	for k, v := range wj.Credentials {
		accessInfo[k] = v
	}

	filename := filepath.Base(res.Output)
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		accessInfo["contentType"] = ct
	}

	switch wj.Type {
	case writerbackends.Local:
		// baseDir comes from credentials
		accessInfo["folder"] = filepath.Join(wj.Prefix, res.Target)
		accessInfo["filename"] = filename
	default:
		accessInfo[writerbackends.PathKey(wj.Type)] = path.Join(wj.Prefix, res.Target, filename)
	}
	return accessInfo
}
