package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/LandyLee-gdut/essay-grader/internal/config"
	"github.com/LandyLee-gdut/essay-grader/internal/models"
	"github.com/LandyLee-gdut/essay-grader/internal/pipeline"
	"github.com/LandyLee-gdut/essay-grader/internal/storage"
)

type Handler struct {
	cfg      config.Config
	sessions *storage.SessionStore
	history  *storage.HistoryStore
	pipeline *pipeline.Pipeline
}

func New(cfg config.Config) (*Handler, error) {
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Handler{
		cfg:      cfg,
		sessions: storage.NewSessionStore(),
		history:  storage.NewHistoryStore(cfg.HistoryPath),
		pipeline: p,
	}, nil
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

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*models.GradingSession, bool) {
	session, exists := h.sessions.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

// File operation helpers
func (h *Handler) ensureUploadsDir() error {
	return os.MkdirAll(h.cfg.UploadsDir, 0755)
}
