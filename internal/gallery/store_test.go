package gallery

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/creative-canvas/canvas/internal/auth"
	"github.com/creative-canvas/canvas/internal/models"
	"github.com/creative-canvas/canvas/internal/storage"
)

// manualProvider drives identity changes from the test body.
type manualProvider struct {
	mu       sync.Mutex
	watchers map[int]func(*models.Identity)
	next     int
}

func newManualProvider() *manualProvider {
	return &manualProvider{watchers: make(map[int]func(*models.Identity))}
}

func (p *manualProvider) Watch(fn func(*models.Identity)) func() {
	p.mu.Lock()
	id := p.next
	p.next++
	p.watchers[id] = fn
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.watchers, id)
	}
}

func (p *manualProvider) emit(identity *models.Identity) {
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

func (p *manualProvider) SignInAnonymously(context.Context) error { return nil }
func (p *manualProvider) SignOut(context.Context) error           { return nil }

// failingStore wraps a store and fails writes on demand.
type failingStore struct {
	storage.Store
	failSet bool
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if s.failSet {
		return &storage.PersistenceError{Op: "set", Key: key, Err: errors.New("disk full")}
	}
	return s.Store.Set(ctx, key, value)
}

func newTestStore(t *testing.T, kv storage.Store) (*Store, *manualProvider) {
	t.Helper()
	provider := newManualProvider()
	session := auth.NewSessionStore(provider)
	t.Cleanup(session.Close)
	store := NewStore(kv, session)
	t.Cleanup(store.Close)
	return store, provider
}

func identity(id string) *models.Identity {
	return &models.Identity{ID: id, IsAnonymous: true}
}

func TestAddAndList(t *testing.T) {
	store, provider := newTestStore(t, storage.NewMemoryStore())
	provider.emit(identity("u1"))
	ctx := context.Background()

	cat, err := store.Add(ctx, AddRequest{Prompt: "a cat", ImageURL: "https://x/1.png", Visibility: models.VisibilityPrivate})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if cat.ID == "" {
		t.Error("Expected a generated id")
	}
	if cat.OwnerID != "u1" {
		t.Errorf("Expected owner u1, got %q", cat.OwnerID)
	}

	list := store.List()
	if len(list) != 1 || list[0].Prompt != "a cat" {
		t.Fatalf("Expected one cat entry, got %v", list)
	}

	dog, err := store.Add(ctx, AddRequest{Prompt: "a dog", ImageURL: "https://x/2.png", Visibility: models.VisibilityPrivate})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if dog.ID == cat.ID {
		t.Error("Expected unique ids across adds")
	}
	if dog.Timestamp < cat.Timestamp {
		t.Error("Expected non-decreasing timestamps")
	}

	list = store.List()
	if len(list) != 2 {
		t.Fatalf("Expected two entries, got %d", len(list))
	}
	// Newest first
	if list[0].Prompt != "a dog" || list[1].Prompt != "a cat" {
		t.Errorf("Expected dog then cat, got %q then %q", list[0].Prompt, list[1].Prompt)
	}

	if err := store.Delete(ctx, dog.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list = store.List()
	if len(list) != 1 || list[0].Prompt != "a cat" {
		t.Errorf("Expected only the cat after delete, got %v", list)
	}
}

func TestAddValidation(t *testing.T) {
	store, provider := newTestStore(t, storage.NewMemoryStore())
	provider.emit(identity("u1"))

	tests := []struct {
		name string
		req  AddRequest
	}{
		{name: "empty prompt", req: AddRequest{ImageURL: "https://x/1.png"}},
		{name: "empty image url", req: AddRequest{Prompt: "a cat"}},
		{name: "bad visibility", req: AddRequest{Prompt: "a cat", ImageURL: "https://x/1.png", Visibility: "friends"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Add(context.Background(), tt.req); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
	if len(store.List()) != 0 {
		t.Error("Expected no entries after rejected adds")
	}
}

func TestAddWithoutIdentity(t *testing.T) {
	store, _ := newTestStore(t, storage.NewMemoryStore())

	_, err := store.Add(context.Background(), AddRequest{Prompt: "a cat", ImageURL: "https://x/1.png"})
	if !errors.Is(err, ErrNoIdentity) {
		t.Errorf("Expected ErrNoIdentity, got %v", err)
	}
	if err := store.Delete(context.Background(), "whatever"); err != nil {
		t.Errorf("Expected Delete without identity to be a no-op, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store, provider := newTestStore(t, storage.NewMemoryStore())
	provider.emit(identity("u1"))
	ctx := context.Background()

	img, err := store.Add(ctx, AddRequest{Prompt: "a cat", ImageURL: "https://x/1.png"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := store.Delete(ctx, img.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, img.ID); err != nil {
		t.Fatalf("Second delete: %v", err)
	}
	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("Delete of unknown id: %v", err)
	}
	if len(store.List()) != 0 {
		t.Error("Expected empty collection")
	}
}

func TestIdentitySwitchRestoresCollections(t *testing.T) {
	store, provider := newTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()

	provider.emit(identity("a"))
	if _, err := store.Add(ctx, AddRequest{Prompt: "alpine lake", ImageURL: "https://x/a.png"}); err != nil {
		t.Fatalf("Add for a: %v", err)
	}

	provider.emit(identity("b"))
	if len(store.List()) != 0 {
		t.Fatal("Expected b to start with an empty collection")
	}
	if _, err := store.Add(ctx, AddRequest{Prompt: "busy harbor", ImageURL: "https://x/b.png"}); err != nil {
		t.Fatalf("Add for b: %v", err)
	}

	provider.emit(identity("a"))
	list := store.List()
	if len(list) != 1 || list[0].Prompt != "alpine lake" || list[0].OwnerID != "a" {
		t.Fatalf("Expected a's collection restored exactly, got %v", list)
	}

	provider.emit(nil)
	if len(store.List()) != 0 {
		t.Error("Expected empty list after sign-out")
	}
}

func TestPersistenceFailureRollsBack(t *testing.T) {
	kv := &failingStore{Store: storage.NewMemoryStore()}
	store, provider := newTestStore(t, kv)
	provider.emit(identity("u1"))
	ctx := context.Background()

	img, err := store.Add(ctx, AddRequest{Prompt: "a cat", ImageURL: "https://x/1.png"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	kv.failSet = true

	var perr *storage.PersistenceError
	if _, err := store.Add(ctx, AddRequest{Prompt: "a dog", ImageURL: "https://x/2.png"}); !errors.As(err, &perr) {
		t.Fatalf("Expected PersistenceError, got %v", err)
	}
	if err := store.Delete(ctx, img.ID); !errors.As(err, &perr) {
		t.Fatalf("Expected PersistenceError from delete, got %v", err)
	}

	// In-memory state is unchanged after failed mutations.
	list := store.List()
	if len(list) != 1 || list[0].ID != img.ID {
		t.Errorf("Expected collection unchanged after failures, got %v", list)
	}

	kv.failSet = false
	if _, err := store.Add(ctx, AddRequest{Prompt: "a dog", ImageURL: "https://x/2.png"}); err != nil {
		t.Errorf("Expected add to succeed once storage recovers, got %v", err)
	}
}

func TestCollectionSurvivesReload(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()

	store, provider := newTestStore(t, kv)
	provider.emit(identity("u1"))
	if _, err := store.Add(ctx, AddRequest{Prompt: "a cat", ImageURL: "https://x/1.png"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// A fresh store over the same storage sees the persisted data.
	fresh, freshProvider := newTestStore(t, kv)
	freshProvider.emit(identity("u1"))
	list := fresh.List()
	if len(list) != 1 || list[0].Prompt != "a cat" {
		t.Errorf("Expected persisted collection on reload, got %v", list)
	}
}
