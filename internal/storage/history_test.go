package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/LandyLee-gdut/essay-grader/internal/models"
)

func testEntries() []models.HistoryEntry {
	return []models.HistoryEntry{
		{Title: "Essay A", Timestamp: "2025-01-02 15:04", TextPath: "/texts/a.txt", RatePath: "/rates/a.txt"},
		{Title: "Essay B", Timestamp: "2025-01-03 09:30", TextPath: "/texts/b.txt", RatePath: "/rates/b.txt"},
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))

	entries := testEntries()
	if err := store.Save(entries); err != nil {
		t.Fatalf("Expected save to succeed, got %v", err)
	}

	loaded := store.Load()
	if !reflect.DeepEqual(loaded, entries) {
		t.Errorf("Round-trip mismatch:\nexpected %+v\ngot      %+v", entries, loaded)
	}

	// Loading is idempotent.
	if again := store.Load(); !reflect.DeepEqual(again, loaded) {
		t.Errorf("Second load differs from first")
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))

	entries := store.Load()
	if entries == nil {
		t.Fatal("Expected non-nil empty slice for missing file")
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(entries))
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write malformed file: %v", err)
	}

	store := NewHistoryStore(path)
	entries := store.Load()
	if len(entries) != 0 {
		t.Errorf("Expected malformed history to load as empty, got %d entries", len(entries))
	}
}

func TestAppend(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"))

	first := models.HistoryEntry{Title: "Essay A", Timestamp: "2025-01-02 15:04"}
	updated, err := store.Append(first)
	if err != nil {
		t.Fatalf("Expected append to succeed, got %v", err)
	}
	if len(updated) != 1 {
		t.Fatalf("Expected 1 entry after first append, got %d", len(updated))
	}

	second := models.HistoryEntry{Title: "Essay B", Timestamp: "2025-01-03 09:30"}
	updated, err = store.Append(second)
	if err != nil {
		t.Fatalf("Expected append to succeed, got %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("Expected 2 entries after second append, got %d", len(updated))
	}
	if updated[0].Title != "Essay A" || updated[1].Title != "Essay B" {
		t.Errorf("Append order not preserved: %+v", updated)
	}

	// The file reflects the full list.
	if loaded := store.Load(); len(loaded) != 2 {
		t.Errorf("Expected 2 persisted entries, got %d", len(loaded))
	}
}
