package domain

import (
	"context"
	"io"
	"time"
)

// StorageEntry is one entry of a single-level bucket listing. Folders have
// an empty ID.
type StorageEntry struct {
	ID   string
	Name string
	Size int64
}

func (e StorageEntry) IsFolder() bool {
	return e.ID == ""
}

type Storage interface {
	// List returns the direct children of prefix ("" for the bucket root).
	List(ctx context.Context, prefix string) ([]StorageEntry, error)
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, path string) error
}
