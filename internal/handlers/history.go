package handlers

import (
	"net/http"
)

// HandleHistory returns the persisted grading history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.writeJSON(w, h.history.Load())
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
