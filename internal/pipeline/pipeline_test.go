package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/LandyLee-gdut/essay-grader/internal/models"
	"github.com/LandyLee-gdut/essay-grader/internal/storage"
)

// fakeExtractor replays a fixed sequence of cumulative totals.
type fakeExtractor struct {
	totals []string
	err    error
	calls  int
}

func (f *fakeExtractor) StreamExtract(ctx context.Context, imagePaths []string, onTotal func(string)) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	var last string
	for _, total := range f.totals {
		last = total
		onTotal(total)
	}
	return last, nil
}

type fakeGrader struct {
	totals []string
	err    error
	calls  int
	body   string
}

func (f *fakeGrader) StreamGrade(ctx context.Context, body string, onTotal func(string)) (string, error) {
	f.calls++
	f.body = body
	if f.err != nil {
		return "", f.err
	}
	var last string
	for _, total := range f.totals {
		last = total
		onTotal(total)
	}
	return last, nil
}

func collect(snapshots <-chan models.Snapshot) []models.Snapshot {
	var out []models.Snapshot
	for s := range snapshots {
		out = append(out, s)
	}
	return out
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	history := storage.NewHistoryStore(cfg.HistoryPath)

	image := writeImage(t, t.TempDir(), "essay.jpg", 2048)

	extractor := &fakeExtractor{totals: []string{"Essay A", "Essay A\nI went to school."}}
	grader := &fakeGrader{totals: []string{"Good.", "Good. Solid structure."}}

	p := NewWithServices(cfg, history, extractor, grader)
	snapshots := collect(p.Run(context.Background(), []string{image}))

	last := snapshots[len(snapshots)-1]
	if last.Status != models.StatusDone {
		t.Fatalf("Expected terminal status done, got %q (%s)", last.Status, last.Message)
	}

	if last.Entry == nil || last.Entry.Title != "Essay A" {
		t.Fatalf("Expected history entry with title 'Essay A', got %+v", last.Entry)
	}

	// The grader receives the split body, not the full extraction.
	if grader.body != "I went to school." {
		t.Errorf("Expected grader body 'I went to school.', got %q", grader.body)
	}

	// Both artifacts exist and hold the expected contents.
	text, err := os.ReadFile(last.TextPath)
	if err != nil {
		t.Fatalf("Expected essay text file at %s: %v", last.TextPath, err)
	}
	if string(text) != "I went to school." {
		t.Errorf("Expected essay text 'I went to school.', got %q", string(text))
	}

	rate, err := os.ReadFile(last.RatePath)
	if err != nil {
		t.Fatalf("Expected feedback file at %s: %v", last.RatePath, err)
	}
	if string(rate) != "Good. Solid structure." {
		t.Errorf("Expected feedback 'Good. Solid structure.', got %q", string(rate))
	}

	// History grew by exactly one entry.
	entries := history.Load()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(entries))
	}
	if len(last.History) != 1 {
		t.Errorf("Expected terminal snapshot to carry 1 history entry, got %d", len(last.History))
	}

	// Snapshots preserve the cumulative-yield contract per state.
	var extracting, grading []string
	for _, s := range snapshots {
		switch s.Status {
		case models.StatusExtracting:
			if s.ExtractedText != "" {
				extracting = append(extracting, s.ExtractedText)
			}
		case models.StatusGrading:
			if s.GradingText != "" {
				grading = append(grading, s.GradingText)
			}
		}
	}
	if len(extracting) != 2 || extracting[0] != "Essay A" || extracting[1] != "Essay A\nI went to school." {
		t.Errorf("Unexpected extracting snapshots: %v", extracting)
	}
	if len(grading) != 2 || grading[0] != "Good." || grading[1] != "Good. Solid structure." {
		t.Errorf("Unexpected grading snapshots: %v", grading)
	}
}

func TestRunEmptyBatchSkipsGateway(t *testing.T) {
	cfg := testConfig(t)
	extractor := &fakeExtractor{}
	grader := &fakeGrader{}

	p := NewWithServices(cfg, storage.NewHistoryStore(cfg.HistoryPath), extractor, grader)
	snapshots := collect(p.Run(context.Background(), nil))

	last := snapshots[len(snapshots)-1]
	if last.Status != models.StatusFailed {
		t.Fatalf("Expected terminal status error, got %q", last.Status)
	}
	if extractor.calls != 0 {
		t.Errorf("Expected no extraction call for an empty batch, got %d", extractor.calls)
	}
	if grader.calls != 0 {
		t.Errorf("Expected no grading call for an empty batch, got %d", grader.calls)
	}
}

func TestRunGradingFailurePersistsNothing(t *testing.T) {
	cfg := testConfig(t)
	history := storage.NewHistoryStore(cfg.HistoryPath)
	image := writeImage(t, t.TempDir(), "essay.jpg", 2048)

	extractor := &fakeExtractor{totals: []string{"Essay A\nbody"}}
	grader := &fakeGrader{err: errors.New("rate limited")}

	p := NewWithServices(cfg, history, extractor, grader)
	snapshots := collect(p.Run(context.Background(), []string{image}))

	last := snapshots[len(snapshots)-1]
	if last.Status != models.StatusFailed {
		t.Fatalf("Expected terminal status error, got %q", last.Status)
	}

	if entries := history.Load(); len(entries) != 0 {
		t.Errorf("Expected empty history after failed run, got %d entries", len(entries))
	}
	if _, err := os.Stat(cfg.TextsDir); !os.IsNotExist(err) {
		t.Errorf("Expected no texts directory after failed run")
	}
}
