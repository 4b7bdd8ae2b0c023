// Package handlers exposes the session, generation and gallery
// operations as a JSON API for the web UI.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/creative-canvas/canvas/internal/auth"
	"github.com/creative-canvas/canvas/internal/enhance"
	"github.com/creative-canvas/canvas/internal/gallery"
	"github.com/creative-canvas/canvas/internal/imagegen"
)

type Handler struct {
	session      *auth.SessionStore
	gallery      *gallery.Store
	generator    imagegen.Generator
	enhancer     enhance.Enhancer
	enhanceModel string
	staticDir    string
}

type Options struct {
	Session      *auth.SessionStore
	Gallery      *gallery.Store
	Generator    imagegen.Generator
	Enhancer     enhance.Enhancer
	EnhanceModel string
	StaticDir    string
}

func New(opts Options) *Handler {
	staticDir := opts.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	return &Handler{
		session:      opts.Session,
		gallery:      opts.Gallery,
		generator:    opts.Generator,
		enhancer:     opts.Enhancer,
		enhanceModel: opts.EnhanceModel,
		staticDir:    staticDir,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
