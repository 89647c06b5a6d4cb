package writerbackends

import (
	"context"
	"fmt"
	"io"
)

// Backend type names accepted by WriteImage.
const (
	Local = "local"
	S3    = "s3"
	GCS   = "gcs"
	SFTP  = "sftp"
)

// WriteImage streams reader to the backend named by backendType. accessInfo
// carries the destination and credentials; each backend documents its keys.
func WriteImage(ctx context.Context, accessInfo map[string]string, reader io.Reader, backendType string) error {
	switch backendType {
	case Local:
		if err := WriteToLocal(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to write to local directory: %w", err)
		}
	case S3:
		if err := UploadToS3WithCreds(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to upload to S3: %w", err)
		}
	case GCS:
		if err := UploadToGCSWithJSON(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to upload to GCS: %w", err)
		}
	case SFTP:
		if err := UploadToSFTPWithCreds(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to upload to SFTP: %w", err)
		}
	default:
		return fmt.Errorf("unknown backend type: %s", backendType)
	}
	return nil
}

// PathKey is the accessInfo key a backend reads its destination path from.
func PathKey(backendType string) string {
	switch backendType {
	case S3:
		return "key"
	case GCS:
		return "object"
	case SFTP:
		return "remotePath"
	default:
		return "filename"
	}
}
