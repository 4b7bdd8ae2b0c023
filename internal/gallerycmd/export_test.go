package gallerycmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/creative-canvas/canvas/internal/gallery"
	"github.com/creative-canvas/canvas/internal/models"
	"github.com/creative-canvas/canvas/internal/storage"
	"gopkg.in/yaml.v3"
)

func seedGallery(t *testing.T, store storage.Store, owner string, images []models.GeneratedImage) {
	t.Helper()
	raw, err := gallery.EncodeCollection(images)
	if err != nil {
		t.Fatalf("EncodeCollection: %v", err)
	}
	if err := store.Set(context.Background(), gallery.Key(owner), raw); err != nil {
		t.Fatalf("Set: %v", err)
	}
}

func TestListOwners(t *testing.T) {
	store := storage.NewMemoryStore()
	seedGallery(t, store, "u1", nil)
	seedGallery(t, store, "u2", nil)

	owners, err := listOwners(context.Background(), store)
	if err != nil {
		t.Fatalf("listOwners: %v", err)
	}
	if len(owners) != 2 || owners[0] != "u1" || owners[1] != "u2" {
		t.Errorf("Expected [u1 u2], got %v", owners)
	}
}

func TestLoadCollectionMissingOwner(t *testing.T) {
	store := storage.NewMemoryStore()
	if _, err := loadCollection(context.Background(), store, "ghost"); err == nil {
		t.Error("Expected error for missing gallery")
	}
}

func TestExportYAML(t *testing.T) {
	images := []models.GeneratedImage{
		{ID: "b", Prompt: "a dog", ImageURL: "https://x/2.png", Timestamp: 2000, Visibility: models.VisibilityPrivate, OwnerID: "u1"},
		{ID: "a", Prompt: "a cat", ImageURL: "https://x/1.png", Timestamp: 1000, Visibility: models.VisibilityPublic, OwnerID: "u1"},
	}

	path := filepath.Join(t.TempDir(), "gallery.yaml")
	if err := exportYAML(path, "u1", images); err != nil {
		t.Fatalf("exportYAML: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var spec exportSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if spec.Owner != "u1" || spec.Count != 2 {
		t.Errorf("Expected owner u1 with 2 images, got %q %d", spec.Owner, spec.Count)
	}
	if len(spec.Images) != 2 || spec.Images[0].ID != "b" || spec.Images[1].ID != "a" {
		t.Errorf("Expected image order preserved, got %v", spec.Images)
	}
}

func TestExportParquet(t *testing.T) {
	images := []models.GeneratedImage{
		{ID: "a", Prompt: "a cat", ImageURL: "https://x/1.png", Timestamp: 1000, Visibility: models.VisibilityPrivate, OwnerID: "u1"},
	}

	path := filepath.Join(t.TempDir(), "gallery.parquet")
	if err := exportParquet(path, images); err != nil {
		t.Fatalf("exportParquet: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty parquet file")
	}
}
