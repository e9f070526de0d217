package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

func NewClient(cfg Config) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}
	return client, nil
}

// S3Storage exposes a single bucket of an S3 compatible store.
type S3Storage struct {
	client *minio.Client
	bucket string
}

func NewS3Storage(client *minio.Client, bucket string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket}
}

func (s *S3Storage) Bucket() string {
	return s.bucket
}

func (s *S3Storage) List(ctx context.Context, prefix string) ([]domain.StorageEntry, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: false}
	var entries []domain.StorageEntry
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("listing %s/%s: %w", s.bucket, prefix, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		if strings.HasSuffix(name, "/") {
			entries = append(entries, domain.StorageEntry{Name: strings.TrimSuffix(name, "/")})
			continue
		}
		if name == "" {
			// folder placeholder object
			continue
		}
		id := obj.ETag
		if id == "" {
			id = obj.Key
		}
		entries = append(entries, domain.StorageEntry{ID: id, Name: name, Size: obj.Size})
	}
	return entries, nil
}

func (s *S3Storage) Put(ctx context.Context, filePath string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, path.Clean(filePath), r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("storing %s: %w", filePath, err)
	}
	return nil
}

func (s *S3Storage) Delete(ctx context.Context, filePath string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, filePath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing %s: %w", filePath, err)
	}
	return nil
}

func (s *S3Storage) SignedURL(ctx context.Context, filePath string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, filePath, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("signing %s: %w", filePath, err)
	}
	return u.String(), nil
}
