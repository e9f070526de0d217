package mock

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

// Storage keeps objects in memory and lists them like a delimiter based
// bucket listing.
type Storage struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	// SignErr fails signing of the listed paths.
	SignErr   map[string]error
	ListErr   error
	DeleteErr error
}

func NewStorage(paths ...string) *Storage {
	s := &Storage{Objects: make(map[string][]byte), SignErr: make(map[string]error)}
	for _, p := range paths {
		s.Objects[p] = nil
	}
	return s
}

func (s *Storage) List(ctx context.Context, prefix string) ([]domain.StorageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	folders := map[string]bool{}
	var entries []domain.StorageEntry
	for p, data := range s.Objects {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			folders[rest[:i]] = true
			continue
		}
		entries = append(entries, domain.StorageEntry{ID: "id:" + p, Name: rest, Size: int64(len(data))})
	}
	for f := range folders {
		entries = append(entries, domain.StorageEntry{Name: f})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (s *Storage) Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[path] = data
	return nil
}

func (s *Storage) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.SignErr[path]; err != nil {
		return "", err
	}
	return fmt.Sprintf("https://storage.test/%s?expires=%d", path, int(ttl.Seconds())), nil
}

func (s *Storage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.Objects, path)
	return nil
}
