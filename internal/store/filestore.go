package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"
)

// FileStore persists documents as plain files under a root directory. A
// handle is a slash-separated path relative to the root; handles that escape
// the root are rejected. Replace writes to a temporary file in the target
// directory and renames it into place, so readers never observe a partially
// written document.
type FileStore struct {
	root string

	mu    sync.Mutex
	locks map[Handle]*semaphore.Weighted
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		root:  dir,
		locks: make(map[Handle]*semaphore.Weighted),
	}
}

// Read implements Store.
func (s *FileStore) Read(ctx context.Context, h Handle) (string, error) {
	path, err := s.resolve(h)
	if err != nil {
		return "", err
	}

	release, err := s.acquire(ctx, h)
	if err != nil {
		return "", err
	}
	defer release()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("read %q: %w", h, ErrNotExist)
		}
		return "", fmt.Errorf("read %q: %w", h, err)
	}
	return string(data), nil
}

// Replace implements Store.
func (s *FileStore) Replace(ctx context.Context, h Handle, text string) error {
	path, err := s.resolve(h)
	if err != nil {
		return err
	}

	release, err := s.acquire(ctx, h)
	if err != nil {
		return err
	}
	defer release()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".highlight-*")
	if err != nil {
		return fmt.Errorf("replace %q: %w", h, err)
	}

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %q: %w", h, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %q: %w", h, err)
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %q: %w", h, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %q: %w", h, err)
	}
	return nil
}

// acquire serializes access to one document. The semaphore honors context
// cancellation, so a caller abandoned mid-wait does not deadlock the handle.
func (s *FileStore) acquire(ctx context.Context, h Handle) (func(), error) {
	s.mu.Lock()
	sem, ok := s.locks[h]
	if !ok {
		sem = semaphore.NewWeighted(1)
		s.locks[h] = sem
	}
	s.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("lock %q: %w", h, err)
	}
	return func() { sem.Release(1) }, nil
}

// resolve maps a handle to an absolute path, rejecting escapes of the root.
func (s *FileStore) resolve(h Handle) (string, error) {
	if h == "" {
		return "", ErrInvalidHandle
	}

	rel := filepath.Clean(filepath.FromSlash(string(h)))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("handle %q: %w", h, ErrInvalidHandle)
	}
	return filepath.Join(s.root, rel), nil
}
