package storage

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/LandyLee-gdut/essay-grader/internal/domain"
	"github.com/LandyLee-gdut/essay-grader/internal/models"
)

// HistoryStore persists the grading history as one JSON array. Saves rewrite
// the whole file, so the store assumes a single writer; concurrent appends
// can lose an update.
type HistoryStore struct {
	path string
}

// NewHistoryStore returns a history store backed by the given file.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// Load reads the history file. A missing or malformed file is logged and
// treated as an empty history, never an error.
func (h *HistoryStore) Load() []models.HistoryEntry {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to read history file", "path", h.path, "err", err)
		}
		return []models.HistoryEntry{}
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("Failed to parse history file, treating as empty", "path", h.path, "err", err)
		return []models.HistoryEntry{}
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries
}

// Save overwrites the history file with the full entry list, indented for
// human readability. The write goes through a temp file and rename so a
// crash mid-write cannot truncate the existing history.
func (h *HistoryStore) Save(entries []models.HistoryEntry) error {
	dir := filepath.Dir(h.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return domain.StorageError("failed to create history directory", err)
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return domain.StorageError("failed to encode history", err)
	}

	tmp, err := os.CreateTemp(dir, "history-*.json")
	if err != nil {
		return domain.StorageError("failed to create temp history file", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return domain.StorageError("failed to write history", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return domain.StorageError("failed to close history file", err)
	}
	if err := os.Rename(tmp.Name(), h.path); err != nil {
		os.Remove(tmp.Name())
		return domain.StorageError("failed to replace history file", err)
	}
	return nil
}

// Append loads the current history, appends entry, saves the result, and
// returns the updated list.
func (h *HistoryStore) Append(entry models.HistoryEntry) ([]models.HistoryEntry, error) {
	entries := h.Load()
	entries = append(entries, entry)
	if err := h.Save(entries); err != nil {
		return nil, err
	}
	return entries, nil
}
