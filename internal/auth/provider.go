// Package auth owns the current identity: an external-provider
// abstraction plus a session store that view code subscribes to.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/creative-canvas/canvas/internal/models"
	"github.com/creative-canvas/canvas/internal/storage"
	"github.com/google/uuid"
)

// currentIdentityKey is where the provider persists the signed-in
// identity so a restart resolves the same principal.
const currentIdentityKey = "auth/current"

// AuthError reports an identity provider request failure.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Provider is the external identity collaborator. Identity changes are
// pushed to registered watchers; sign-in and sign-out only signal
// request acceptance, the resulting identity arrives via Watch.
type Provider interface {
	// Watch registers fn for identity change notifications and
	// returns a cancel func. fn receives nil when signed out.
	Watch(fn func(*models.Identity)) (cancel func())
	SignInAnonymously(ctx context.Context) error
	SignOut(ctx context.Context) error
}

// LocalProvider issues anonymous identities locally and persists the
// current one in durable storage, so the same principal is resolved
// across restarts.
type LocalProvider struct {
	store storage.Store

	mu       sync.Mutex
	resolved bool
	current  *models.Identity
	watchers map[int]func(*models.Identity)
	nextID   int
}

func NewLocalProvider(store storage.Store) *LocalProvider {
	return &LocalProvider{
		store:    store,
		watchers: make(map[int]func(*models.Identity)),
	}
}

// Resolve loads the persisted identity (if any) and reports the
// initial state to watchers. Call once at startup.
func (p *LocalProvider) Resolve(ctx context.Context) error {
	raw, err := p.store.Get(ctx, currentIdentityKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return &AuthError{Op: "resolve", Err: err}
	}

	var identity *models.Identity
	if err == nil {
		var stored models.Identity
		if uerr := json.Unmarshal(raw, &stored); uerr != nil {
			return &AuthError{Op: "resolve", Err: uerr}
		}
		identity = &stored
	}

	p.mu.Lock()
	p.resolved = true
	p.current = identity
	p.mu.Unlock()
	p.notify(identity)
	return nil
}

func (p *LocalProvider) Watch(fn func(*models.Identity)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.watchers[id] = fn
	resolved := p.resolved
	current := p.current
	p.mu.Unlock()

	// A watcher registered after resolution still learns the state.
	if resolved {
		fn(current)
	}

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.watchers, id)
	}
}

func (p *LocalProvider) SignInAnonymously(ctx context.Context) error {
	identity := &models.Identity{
		ID:          uuid.NewString(),
		IsAnonymous: true,
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return &AuthError{Op: "sign-in", Err: err}
	}
	if err := p.store.Set(ctx, currentIdentityKey, raw); err != nil {
		return &AuthError{Op: "sign-in", Err: err}
	}

	p.mu.Lock()
	p.resolved = true
	p.current = identity
	p.mu.Unlock()
	p.notify(identity)
	return nil
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	if err := p.store.Delete(ctx, currentIdentityKey); err != nil {
		return &AuthError{Op: "sign-out", Err: err}
	}

	p.mu.Lock()
	p.resolved = true
	p.current = nil
	p.mu.Unlock()
	p.notify(nil)
	return nil
}

func (p *LocalProvider) notify(identity *models.Identity) {
	p.mu.Lock()
	fns := make([]func(*models.Identity), 0, len(p.watchers))
	for _, fn := range p.watchers {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}
