package models

import "fmt"

// Visibility controls whether a saved image is shareable or owner-only.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Valid reports whether v is a known visibility value.
func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

// Identity is the principal issued by the identity provider. Anonymous
// identities carry only an opaque ID.
type Identity struct {
	ID          string `json:"id"`
	IsAnonymous bool   `json:"is_anonymous"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// GeneratedImage is one saved gallery entry. Immutable once created;
// the only mutation a gallery supports is removal.
type GeneratedImage struct {
	ID         string     `json:"id" yaml:"id"`
	Prompt     string     `json:"prompt" yaml:"prompt"`
	ImageURL   string     `json:"image_url" yaml:"image_url"`
	Timestamp  int64      `json:"timestamp" yaml:"timestamp"` // unix milliseconds
	Visibility Visibility `json:"visibility" yaml:"visibility"`
	OwnerID    string     `json:"owner_id" yaml:"owner_id"`
}

// Validate checks the fields a caller supplies; ID, Timestamp and
// OwnerID are assigned by the gallery store.
func (g *GeneratedImage) Validate() error {
	if g.Prompt == "" {
		return fmt.Errorf("prompt is required")
	}
	if g.ImageURL == "" {
		return fmt.Errorf("image_url is required")
	}
	if !g.Visibility.Valid() {
		return fmt.Errorf("invalid visibility %q", g.Visibility)
	}
	return nil
}
