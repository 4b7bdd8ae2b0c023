package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/creative-canvas/canvas/internal/gallery"
	"github.com/creative-canvas/canvas/internal/models"
	"github.com/creative-canvas/canvas/internal/storage"
)

// HandleImages lists the current identity's gallery or saves a new
// entry into it.
func (h *Handler) HandleImages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, h.gallery.List())
	case http.MethodPost:
		var request struct {
			Prompt     string            `json:"prompt"`
			ImageURL   string            `json:"image_url"`
			Visibility models.Visibility `json:"visibility"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		image, err := h.gallery.Add(r.Context(), gallery.AddRequest{
			Prompt:     request.Prompt,
			ImageURL:   request.ImageURL,
			Visibility: request.Visibility,
		})
		if err != nil {
			h.writeError(w, "Failed to save image: "+err.Error(), addStatus(err))
			return
		}
		h.writeJSON(w, image)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleImageDetail deletes one gallery entry. Deleting an id that
// does not exist succeeds, matching the store's idempotent delete.
func (h *Handler) HandleImageDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/images/")
	if id == "" {
		h.writeError(w, "image id is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodDelete:
		if err := h.gallery.Delete(r.Context(), id); err != nil {
			h.writeError(w, "Failed to delete image: "+err.Error(), addStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func addStatus(err error) int {
	var perr *storage.PersistenceError
	switch {
	case errors.Is(err, gallery.ErrNoIdentity):
		return http.StatusUnauthorized
	case errors.As(err, &perr):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
