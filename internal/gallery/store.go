// Package gallery owns the per-identity collection of saved generated
// images: newest-first ordering, scoping by owner, and synchronous
// persistence on every mutation.
package gallery

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/creative-canvas/canvas/internal/auth"
	"github.com/creative-canvas/canvas/internal/models"
	"github.com/creative-canvas/canvas/internal/storage"
	"github.com/google/uuid"
)

// ErrNoIdentity is returned by Add when nobody is signed in.
var ErrNoIdentity = errors.New("no signed-in identity")

// AddRequest carries the caller-supplied fields of a new entry.
type AddRequest struct {
	Prompt     string
	ImageURL   string
	Visibility models.Visibility
}

// Store holds the collection for the current identity. The collection
// in memory never mixes owners: on every identity change it is
// discarded and the new owner's persisted collection loaded. Mutations
// persist the full collection before the in-memory state is updated,
// so a persistence failure leaves the store unchanged.
type Store struct {
	storage storage.Store
	unsub   func()

	// mu serializes read-modify-persist sequences; the single
	// current identity makes this the per-identity lock.
	mu     sync.Mutex
	owner  string
	images []models.GeneratedImage
	lastTS int64
}

func NewStore(st storage.Store, session *auth.SessionStore) *Store {
	s := &Store{storage: st}
	s.unsub = session.Subscribe(s.onIdentity)
	return s
}

// Close detaches the store from session notifications.
func (s *Store) Close() {
	s.unsub()
}

func (s *Store) onIdentity(identity *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if identity == nil {
		s.owner = ""
		s.images = nil
		s.lastTS = 0
		return
	}
	if identity.ID == s.owner {
		return
	}

	s.owner = identity.ID
	s.images = nil
	s.lastTS = 0

	raw, err := s.storage.Get(context.Background(), Key(identity.ID))
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		slog.Error("Failed to load gallery", "owner", identity.ID, "err", err)
		return
	}
	images, err := DecodeCollection(raw)
	if err != nil {
		slog.Error("Failed to decode gallery", "owner", identity.ID, "err", err)
		return
	}
	s.images = images
	if len(images) > 0 {
		s.lastTS = images[0].Timestamp
	}
}

// List returns the current collection, newest first.
func (s *Store) List() []models.GeneratedImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.GeneratedImage, len(s.images))
	copy(out, s.images)
	return out
}

// Add creates a new entry owned by the current identity, prepends it
// and persists the collection. The in-memory collection is only
// updated once the write succeeds.
func (s *Store) Add(ctx context.Context, req AddRequest) (*models.GeneratedImage, error) {
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPrivate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner == "" {
		return nil, ErrNoIdentity
	}

	ts := time.Now().UnixMilli()
	if ts < s.lastTS {
		ts = s.lastTS
	}

	image := models.GeneratedImage{
		ID:         uuid.NewString(),
		Prompt:     req.Prompt,
		ImageURL:   req.ImageURL,
		Timestamp:  ts,
		Visibility: req.Visibility,
		OwnerID:    s.owner,
	}
	if err := image.Validate(); err != nil {
		return nil, err
	}

	next := make([]models.GeneratedImage, 0, len(s.images)+1)
	next = append(next, image)
	next = append(next, s.images...)

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	s.images = next
	s.lastTS = ts
	return &image, nil
}

// Delete removes the entry with the given id, if present, and persists
// the result. Deleting an absent id is not an error. Without a current
// identity it does nothing.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner == "" {
		return nil
	}

	idx := -1
	for i, img := range s.images {
		if img.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	next := make([]models.GeneratedImage, 0, len(s.images)-1)
	next = append(next, s.images[:idx]...)
	next = append(next, s.images[idx+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.images = next
	return nil
}

func (s *Store) persist(ctx context.Context, images []models.GeneratedImage) error {
	raw, err := EncodeCollection(images)
	if err != nil {
		return &storage.PersistenceError{Op: "encode", Key: Key(s.owner), Err: err}
	}
	return s.storage.Set(ctx, Key(s.owner), raw)
}
