package signal

import "sync"

// A Scope owns a set of subscriptions and releases them all when it ends.
// Adding to a released scope cancels the subscription immediately, so a
// late registration can never outlive its owner.
type Scope struct {
	mu       sync.Mutex
	subs     []Subscription
	released bool
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Add takes ownership of sub and returns it unchanged.
func (s *Scope) Add(sub Subscription) Subscription {
	if sub == nil {
		return nil
	}

	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		sub.Cancel()
		return sub
	}
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return sub
}

// Release cancels every owned subscription. Releasing twice is harmless.
func (s *Scope) Release() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

// Released reports whether the scope has ended.
func (s *Scope) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// Len returns the number of owned subscriptions.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
