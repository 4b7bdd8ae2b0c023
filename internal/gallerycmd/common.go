// Package gallerycmd implements the offline gallery maintenance
// commands. They operate directly on the storage backend.
package gallerycmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/creative-canvas/canvas/internal/config"
	"github.com/creative-canvas/canvas/internal/gallery"
	"github.com/creative-canvas/canvas/internal/models"
	"github.com/creative-canvas/canvas/internal/storage"
	"github.com/spf13/cobra"
)

type storeFlags struct {
	backend    string
	dataDir    string
	sqlitePath string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "backend", "", "Storage backend: file or sqlite (defaults to STORAGE_BACKEND)")
	cmd.Flags().StringVar(&f.dataDir, "data-dir", "", "Data directory for the file backend (defaults to DATA_DIR)")
	cmd.Flags().StringVar(&f.sqlitePath, "sqlite-path", "", "Database path for the sqlite backend (defaults to SQLITE_PATH)")
}

// open resolves flags against the environment config and opens the
// selected backend.
func (f *storeFlags) open() (storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if f.backend == "" {
		f.backend = cfg.StorageBackend
	}
	if f.dataDir == "" {
		f.dataDir = cfg.DataDir
	}
	if f.sqlitePath == "" {
		f.sqlitePath = cfg.SQLitePath
	}
	return storage.Open(f.backend, f.dataDir, f.sqlitePath)
}

func loadCollection(ctx context.Context, store storage.Store, ownerID string) ([]models.GeneratedImage, error) {
	raw, err := store.Get(ctx, gallery.Key(ownerID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no gallery found for owner %s", ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load gallery: %w", err)
	}
	return gallery.DecodeCollection(raw)
}

func listOwners(ctx context.Context, store storage.Store) ([]string, error) {
	keys, err := store.Keys(ctx, gallery.KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list galleries: %w", err)
	}
	owners := make([]string, 0, len(keys))
	for _, key := range keys {
		owners = append(owners, strings.TrimPrefix(key, gallery.KeyPrefix))
	}
	return owners, nil
}
