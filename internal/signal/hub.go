package signal

import (
	"sync"

	"github.com/google/uuid"
)

// A Subscription is a handle to one registered handler. Cancelling it removes
// the handler; cancelling twice is harmless.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// IsActive reports whether the handler can still receive signals.
	IsActive() bool

	// Cancel permanently removes the handler from its hub.
	Cancel()
}

// Hub is a typed signal emitter. Handlers run synchronously on the emitting
// goroutine, in registration order.
type Hub[T any] struct {
	mu    sync.Mutex
	order []string
	subs  map[string]*subscription[T]
}

// NewHub creates an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		subs: make(map[string]*subscription[T]),
	}
}

// Subscribe registers fn and returns its handle. A nil fn yields an already
// cancelled subscription.
func (h *Hub[T]) Subscribe(fn func(T)) Subscription {
	s := &subscription[T]{
		id:  uuid.NewString(),
		hub: h,
		fn:  fn,
	}
	if fn == nil {
		s.cancelled = true
		return s
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[s.id] = s
	h.order = append(h.order, s.id)
	return s
}

// Emit delivers v to every active handler.
func (h *Hub[T]) Emit(v T) {
	h.mu.Lock()
	handlers := make([]func(T), 0, len(h.order))
	for _, id := range h.order {
		if s, ok := h.subs[id]; ok {
			handlers = append(handlers, s.fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(v)
	}
}

// Len returns the number of active subscriptions.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub[T]) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[id]; !ok {
		return
	}
	delete(h.subs, id)
	for i, other := range h.order {
		if other == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

type subscription[T any] struct {
	id  string
	hub *Hub[T]
	fn  func(T)

	mu        sync.Mutex
	cancelled bool
}

func (s *subscription[T]) ID() string { return s.id }

func (s *subscription[T]) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.cancelled
}

func (s *subscription[T]) Cancel() {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	s.mu.Unlock()

	s.hub.remove(s.id)
}
