package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// HandleGrade runs the grading pipeline for an uploaded session, streaming
// progress snapshots to the browser as server-sent events. Each event's data
// payload is one JSON-encoded snapshot; text fields always hold the full
// text so far, so the page can redraw from the latest event alone.
func (h *Handler) HandleGrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" && r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		h.writeError(w, "session query parameter is required", http.StatusBadRequest)
		return
	}

	session, ok := h.getSessionOrError(w, sessionID)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	slog.Info("Starting grading run", "session_id", sessionID, "images", len(session.Images))

	// The pipeline has no cancellation: once started it runs to completion
	// and every snapshot is drained, even if the client goes away mid-run.
	for snapshot := range h.pipeline.Run(context.Background(), session.ImagePaths()) {
		data, err := json.Marshal(snapshot)
		if err != nil {
			slog.Error("Unable to encode snapshot", "err", err)
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			slog.Warn("Client disconnected during grading stream", "session_id", sessionID)
			continue
		}
		flusher.Flush()
	}
}
