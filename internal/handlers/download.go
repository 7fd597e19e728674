package handlers

import (
	"net/http"
	"path/filepath"
)

// HandleDownload serves a saved artifact: the extracted essay text
// (kind=text) or the grading feedback (kind=rate). Only the base filename is
// honored, so requests cannot escape the artifact directories.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("file")
	if name == "" {
		h.writeError(w, "file query parameter is required", http.StatusBadRequest)
		return
	}

	var dir string
	switch r.URL.Query().Get("kind") {
	case "text":
		dir = h.cfg.TextsDir
	case "rate":
		dir = h.cfg.RatesDir
	default:
		h.writeError(w, "kind must be 'text' or 'rate'", http.StatusBadRequest)
		return
	}

	path := filepath.Join(dir, filepath.Base(name))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filepath.Base(name)+"\"")
	http.ServeFile(w, r, path)
}
