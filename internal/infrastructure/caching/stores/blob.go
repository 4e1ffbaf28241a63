// Package stores provides concrete cache store implementations
package stores

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/caching/interfaces"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
)

// FileBlobStore persists asset blobs on the filesystem with an in-memory
// LRU hot tier in front of the disk reads. Paths are slash-separated cache
// tiers, e.g. "certifications/abc.png".
type FileBlobStore struct {
	baseDir string
	hot     *lru.Cache[string, []byte]
	logger  *logging.ChanneledLogger
	mu      sync.Mutex
}

var _ interfaces.BlobStore = (*FileBlobStore)(nil)

// NewFileBlobStore creates a blob store rooted at baseDir with a hot tier
// of maxEntries decoded blobs.
func NewFileBlobStore(baseDir string, maxEntries int, logger *logging.ChanneledLogger) (*FileBlobStore, error) {
	if maxEntries <= 0 {
		maxEntries = 256
	}
	hot, err := lru.New[string, []byte](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob hot tier: %w", err)
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob store directory: %w", err)
	}
	return &FileBlobStore{baseDir: baseDir, hot: hot, logger: logger}, nil
}

// Put writes the blob and returns its on-disk location. Entries are
// content-immutable: an existing path is left untouched.
func (s *FileBlobStore) Put(path string, data []byte) (string, error) {
	fullPath, err := s.fullPath(path)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(fullPath); err == nil {
		s.hot.Add(path, data)
		return fullPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write blob %s: %w", path, err)
	}

	s.hot.Add(path, data)
	if s.logger != nil {
		s.logger.Cache().Debug("Blob stored", "path", path, "bytes", len(data))
	}
	return fullPath, nil
}

// Get returns the blob from the hot tier or disk, or ErrNotFound.
func (s *FileBlobStore) Get(path string) ([]byte, error) {
	if data, ok := s.hot.Get(path); ok {
		return data, nil
	}

	fullPath, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", path, err)
	}

	s.hot.Add(path, data)
	return data, nil
}

// fullPath resolves a cache path under baseDir, rejecting traversal.
func (s *FileBlobStore) fullPath(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid blob path %q", path)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
