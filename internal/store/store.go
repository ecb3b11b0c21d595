package store

import (
	"context"
	"errors"
	"sync"
)

// Sentinel errors for store operations.
var (
	// ErrInvalidHandle is returned for empty handles or handles that would
	// resolve outside a file store's root.
	ErrInvalidHandle = errors.New("invalid document handle")

	// ErrNotExist is returned when a handle resolves to no stored document.
	ErrNotExist = errors.New("document does not exist")
)

// Handle identifies a document within a store. Handles are opaque to the
// highlight pipeline; a file store interprets them as slash-separated paths
// relative to its root.
type Handle string

// Store is the external persistence capability consumed by the session
// controller. Both calls may block and may fail; both honor context
// cancellation.
type Store interface {
	// Read returns a fresh snapshot of the document's current text.
	Read(ctx context.Context, h Handle) (string, error)

	// Replace atomically substitutes the document's entire text.
	Replace(ctx context.Context, h Handle, text string) error
}

// MemStore is an in-memory Store. It serves tests and hosts that keep
// documents outside the filesystem.
type MemStore struct {
	mu   sync.RWMutex
	docs map[Handle]string
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		docs: make(map[Handle]string),
	}
}

// Seed stores text under h, creating or overwriting the document.
func (s *MemStore) Seed(h Handle, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[h] = text
}

// Read implements Store.
func (s *MemStore) Read(ctx context.Context, h Handle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if h == "" {
		return "", ErrInvalidHandle
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.docs[h]
	if !ok {
		return "", ErrNotExist
	}
	return text, nil
}

// Replace implements Store.
func (s *MemStore) Replace(ctx context.Context, h Handle, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if h == "" {
		return ErrInvalidHandle
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[h] = text
	return nil
}
