package gallery

import (
	"encoding/json"
	"fmt"

	"github.com/creative-canvas/canvas/internal/models"
)

// KeyPrefix namespaces persisted collections in the key-value store.
const KeyPrefix = "gallery/images/"

// Key returns the storage key for one owner's collection.
func Key(ownerID string) string {
	return KeyPrefix + ownerID
}

// EncodeCollection serializes a collection, preserving order.
func EncodeCollection(images []models.GeneratedImage) ([]byte, error) {
	if images == nil {
		images = []models.GeneratedImage{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}
	return data, nil
}

// DecodeCollection is the inverse of EncodeCollection.
func DecodeCollection(data []byte) ([]models.GeneratedImage, error) {
	var images []models.GeneratedImage
	if err := json.Unmarshal(data, &images); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}
	return images, nil
}
