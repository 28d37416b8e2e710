package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	appDirName    = "td"
	cacheFilename = "cache.json"
)

// Store persists the cache as a single JSON document. Writes are
// atomic: the document goes to a sibling .tmp file which is then
// renamed over the real one, so a crash never leaves a truncated
// cache.json behind.
type Store struct {
	path string
}

// NewStore creates a store at the platform cache directory
// (e.g. ~/.cache/td/cache.json on Linux, honoring XDG_CACHE_HOME).
func NewStore() *Store {
	return &Store{path: DefaultPath()}
}

// NewStoreWithPath creates a store at an explicit path, mainly for
// tests.
func NewStoreWithPath(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the platform-appropriate cache file location.
func DefaultPath() string {
	return filepath.Join(xdg.CacheHome, appDirName, cacheFilename)
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the cache file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and parses the cache file, then rebuilds indexes.
func (s *Store) Load() (*Cache, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file %s: %w", s.path, err)
	}
	var c Cache
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse cache file %s: %w", s.path, err)
	}
	c.RebuildIndexes()
	return &c, nil
}

// LoadOrDefault loads the cache, returning a fresh one when the file
// does not exist. Other errors propagate.
func (s *Store) LoadOrDefault() (*Cache, error) {
	c, err := s.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes the cache atomically, creating the parent directory if
// needed.
func (s *Store) Save(c *Cache) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache: %w", err)
	}

	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", tmpPath, err)
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write cache file %s: %w", tmpPath, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync cache file %s: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close cache file %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace cache file %s: %w", s.path, err)
	}
	return nil
}

// Delete removes the cache file. A missing file is success.
func (s *Store) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete cache file %s: %w", s.path, err)
	}
	return nil
}

// Context-aware variants. The file I/O runs on its own goroutine so a
// caller on an event loop is never blocked past its deadline. When the
// context wins the race the I/O still completes in the background;
// atomic rename keeps the on-disk file consistent either way.

// LoadContext is Load honoring context cancellation.
func (s *Store) LoadContext(ctx context.Context) (*Cache, error) {
	return await(ctx, s.Load)
}

// LoadOrDefaultContext is LoadOrDefault honoring context cancellation.
func (s *Store) LoadOrDefaultContext(ctx context.Context) (*Cache, error) {
	return await(ctx, s.LoadOrDefault)
}

// SaveContext is Save honoring context cancellation.
func (s *Store) SaveContext(ctx context.Context, c *Cache) error {
	_, err := await(ctx, func() (struct{}, error) {
		return struct{}{}, s.Save(c)
	})
	return err
}

// DeleteContext is Delete honoring context cancellation.
func (s *Store) DeleteContext(ctx context.Context) error {
	_, err := await(ctx, func() (struct{}, error) {
		return struct{}{}, s.Delete()
	})
	return err
}

func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()
	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
