package objects

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Uploader is the storage collaborator: it accepts payload under object key
// and returns publicly resolvable URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, key, contentType string) (string, error)
}

// Bucket is a directory served under public base URL.
type Bucket struct {
	dir  string
	base string
	log  *zap.Logger
}

func NewBucket(dir, publicBaseURL string, log *zap.Logger) (*Bucket, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create bucket directory '%s': %w", dir, err)
	}
	return &Bucket{dir: dir, base: strings.TrimRight(publicBaseURL, "/"), log: log}, nil
}

// Upload writes object atomically, readers never see partial content.
func (b *Bucket) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := filepath.Join(b.dir, filepath.FromSlash(key))
	if rel, err := filepath.Rel(b.dir, dst); err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("object key %q is outside of bucket", key)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("unable to create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("unable to create object: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("unable to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("unable to write object: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("unable to store object: %w", err)
	}

	url := b.base + "/" + key
	b.log.Debug("Object stored", zap.String("key", key), zap.String("type", contentType), zap.Int("size", len(data)), zap.String("url", url))
	return url, nil
}

// Path returns local file behind the object key.
func (b *Bucket) Path(key string) string {
	return filepath.Join(b.dir, filepath.FromSlash(key))
}
