package handlers

import "net/http"

// HandleSession exposes the current identity. POST is ensureSignedIn:
// it signs in anonymously unless an identity is already current.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		identity := h.session.Current()
		if identity == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.writeJSON(w, identity)
	case http.MethodPost:
		if identity := h.session.Current(); identity != nil {
			h.writeJSON(w, identity)
			return
		}
		if err := h.session.SignInAnonymously(r.Context()); err != nil {
			h.writeError(w, "Sign-in failed: "+err.Error(), http.StatusBadGateway)
			return
		}
		h.writeJSON(w, h.session.Current())
	case http.MethodDelete:
		if err := h.session.SignOut(r.Context()); err != nil {
			h.writeError(w, "Sign-out failed: "+err.Error(), http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
