package storage

import (
	"context"

	"floresya-image-server/internal/config"
)

// NewObjectStore 根据配置选择存储后端（类似数据库 dialector 的选择方式）。
func NewObjectStore(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Type {
	case "gcs":
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSObjectPrefix, cfg.GCSCredentials)
	case "local":
		fallthrough
	default:
		return NewLocalStore(cfg.LocalPath, cfg.MediaURLPrefix)
	}
}
