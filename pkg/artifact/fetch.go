package artifact

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

// FetchModel downloads every object stored under "<prefix>/<modelName>/" into
// destDir, preserving the relative file layout. It is called once at startup
// when the model is absent from the local cache.
//
// The download is all-or-nothing from the caller's perspective: objects are
// fetched into a temporary sibling directory that is renamed into place only
// after every object arrived, so a failed fetch never leaves a half-populated
// model directory for the next startup to trip over.
func (s *Store) FetchModel(ctx context.Context, modelName, destDir string) error {
	objectPrefix := path.Join(s.cfg.Prefix, modelName) + "/"

	s.logger.Info("fetching model from artifact store", nil, map[string]interface{}{
		"model":  modelName,
		"prefix": objectPrefix,
		"dest":   destDir,
	})

	start := time.Now()

	tmpDir := destDir + ".partial"
	if err := os.RemoveAll(tmpDir); err != nil {
		return fmt.Errorf("artifact: clean partial dir: %w", err)
	}
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return fmt.Errorf("artifact: create partial dir: %w", err)
	}

	objects := s.Client.ListObjects(ctx, s.cfg.BucketName, minio.ListObjectsOptions{
		Prefix:    objectPrefix,
		Recursive: true,
	})

	count := 0
	for object := range objects {
		if object.Err != nil {
			return fmt.Errorf("artifact: list objects: %w", object.Err)
		}

		relative := strings.TrimPrefix(object.Key, objectPrefix)
		if relative == "" {
			continue
		}
		localPath := filepath.Join(tmpDir, filepath.FromSlash(relative))

		if err := s.Client.FGetObject(ctx, s.cfg.BucketName, object.Key, localPath, minio.GetObjectOptions{}); err != nil {
			return fmt.Errorf("artifact: download %s: %w", object.Key, err)
		}
		count++
	}

	if count == 0 {
		return fmt.Errorf("artifact: no objects found under %q in bucket %q", objectPrefix, s.cfg.BucketName)
	}

	if err := os.RemoveAll(destDir); err != nil {
		return fmt.Errorf("artifact: clean dest dir: %w", err)
	}
	if err := os.Rename(tmpDir, destDir); err != nil {
		return fmt.Errorf("artifact: move model into cache: %w", err)
	}

	s.logger.Info("model fetched from artifact store", nil, map[string]interface{}{
		"model":    modelName,
		"objects":  count,
		"duration": time.Since(start).String(),
	})

	return nil
}
