package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 抽象文件落地方式，local 和 minio 两种实现
type StorageProvider interface {
	Save(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
}

// LocalStorageProvider 写本地磁盘，URL 走 /uploads 静态路由
type LocalStorageProvider struct {
	BasePath string
}

func NewLocalStorageProvider(basePath string) *LocalStorageProvider {
	return &LocalStorageProvider{BasePath: basePath}
}

func (p *LocalStorageProvider) Save(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.BasePath, filename)
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		os.Remove(dst)
		return "", err
	}
	return "/uploads/" + filename, nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	err := os.Remove(filepath.Join(p.BasePath, filename))
	if os.IsNotExist(err) {
		return fmt.Errorf("file %s not found: %w", filename, util.ErrNotFound)
	}
	return err
}

// MinioStorageProvider 对象存储实现
type MinioStorageProvider struct {
	Client *minio.Client
	Bucket string
}

func NewMinioStorageProvider(cfg config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds: credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check minio bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create minio bucket: %w", err)
		}
		logger.Log.Info("minio bucket created", zap.String("bucket", cfg.MinioBucket))
	}

	return &MinioStorageProvider{Client: client, Bucket: cfg.MinioBucket}, nil
}

func (p *MinioStorageProvider) Save(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Bucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/%s/%s", p.Bucket, filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	_, err := p.Client.StatObject(ctx, p.Bucket, filename, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return fmt.Errorf("file %s not found: %w", filename, util.ErrNotFound)
		}
		return err
	}
	return p.Client.RemoveObject(ctx, p.Bucket, filename, minio.RemoveObjectOptions{})
}

// NewStorageProvider 按配置选择存储后端，默认 local
func NewStorageProvider(cfg *config.Config) (StorageProvider, error) {
	switch cfg.Storage.Type {
	case util.StorageMinio:
		return NewMinioStorageProvider(cfg.Storage)
	default:
		return NewLocalStorageProvider(cfg.Storage.LocalPath), nil
	}
}
