package auth

import (
	"context"
	"sync"

	"github.com/creative-canvas/canvas/internal/models"
)

// State tracks where the session store is in its lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateResolved
)

// SessionStore holds the current identity and fans provider changes
// out to subscribers. There is exactly one current identity (or none);
// identity only ever changes through provider notifications.
type SessionStore struct {
	provider Provider
	cancel   func()

	mu        sync.Mutex
	state     State
	loading   bool
	current   *models.Identity
	listeners map[int]func(*models.Identity)
	nextID    int
}

func NewSessionStore(provider Provider) *SessionStore {
	s := &SessionStore{
		provider:  provider,
		state:     StateLoading,
		loading:   true,
		listeners: make(map[int]func(*models.Identity)),
	}
	s.cancel = provider.Watch(s.onChange)
	return s
}

// Close detaches the store from the provider.
func (s *SessionStore) Close() {
	s.cancel()
}

func (s *SessionStore) onChange(identity *models.Identity) {
	s.mu.Lock()
	s.state = StateResolved
	s.loading = false
	s.current = identity
	fns := make([]func(*models.Identity), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

// Subscribe registers fn for identity changes. It fires once
// immediately with the current value (nil before sign-in completes)
// and returns an unsubscribe func.
func (s *SessionStore) Subscribe(fn func(*models.Identity)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Current returns a copy of the current identity, or nil.
func (s *SessionStore) Current() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	identity := *s.current
	return &identity
}

func (s *SessionStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SignInAnonymously asks the provider for a fresh anonymous identity.
// The identity itself arrives through Subscribe; an error here means
// the request was rejected and the loading flag has been cleared.
func (s *SessionStore) SignInAnonymously(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	if err := s.provider.SignInAnonymously(ctx); err != nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return err
	}
	return nil
}

// SignOut asks the provider to terminate the current identity; the
// transition to no-identity arrives through Subscribe.
func (s *SessionStore) SignOut(ctx context.Context) error {
	return s.provider.SignOut(ctx)
}
