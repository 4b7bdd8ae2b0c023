package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/creative-canvas/canvas/internal/enhance"
	"github.com/creative-canvas/canvas/internal/imagegen"
)

// HandleGenerate produces an image URL for a prompt. An empty prompt
// is rejected here, at the view boundary; the generation client itself
// never fails.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Prompt string `json:"prompt"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	prompt := strings.TrimSpace(request.Prompt)
	if prompt == "" {
		h.writeError(w, "prompt is required", http.StatusBadRequest)
		return
	}

	prompt = enhance.Rewrite(r.Context(), h.enhancer, h.enhanceModel, prompt)

	result := h.generator.Generate(r.Context(), imagegen.Request{
		Prompt: prompt,
		Width:  request.Width,
		Height: request.Height,
	})

	h.writeJSON(w, map[string]any{
		"image_url": result.URL,
		"prompt":    prompt,
		"seq":       result.Seq,
	})
}
