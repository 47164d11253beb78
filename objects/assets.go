package objects

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"chapterdoc/config"
)

// Assets prepares pictures and stores them under keys built from their
// place in the content hierarchy.
type Assets struct {
	keys *KeyBuilder
	up   Uploader
	opts PrepareOptions
	log  *zap.Logger
}

func NewAssets(keys *KeyBuilder, up Uploader, opts PrepareOptions, log *zap.Logger) *Assets {
	return &Assets{keys: keys, up: up, opts: opts, log: log}
}

// Open creates local bucket backed assets from configuration.
func Open(cfg *config.ObjectsConfig, log *zap.Logger) (*Assets, *Bucket, error) {
	keys, err := NewKeyBuilder(cfg.KeyTemplate)
	if err != nil {
		return nil, nil, err
	}
	bucket, err := NewBucket(cfg.Bucket, cfg.PublicBaseURL, log.Named("bucket"))
	if err != nil {
		return nil, nil, err
	}
	opts := PrepareOptions{MaxWidth: cfg.MaxWidth, Resize: cfg.Resize, JPEGQuality: cfg.JPEGQuality}
	return NewAssets(keys, bucket, opts, log), bucket, nil
}

// Put prepares picture and uploads it, returning public URL. Name
// extension is replaced to match the stored format.
func (a *Assets) Put(ctx context.Context, p KeyPath, data []byte, declaredType string) (string, error) {
	prepared, err := Prepare(data, declaredType, a.opts, a.log)
	if err != nil {
		return "", err
	}
	p.Name = strings.TrimSuffix(p.Name, path.Ext(p.Name)) + prepared.Ext
	key, err := a.keys.Build(p)
	if err != nil {
		return "", err
	}
	url, err := a.up.Upload(ctx, prepared.Data, key, prepared.ContentType)
	if err != nil {
		return "", fmt.Errorf("unable to upload %s: %w", key, err)
	}
	return url, nil
}
