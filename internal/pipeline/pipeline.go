package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/LandyLee-gdut/essay-grader/internal/config"
	"github.com/LandyLee-gdut/essay-grader/internal/extraction"
	"github.com/LandyLee-gdut/essay-grader/internal/grading"
	"github.com/LandyLee-gdut/essay-grader/internal/models"
	"github.com/LandyLee-gdut/essay-grader/internal/storage"
)

// Extractor streams essay text out of a batch of page images.
type Extractor interface {
	StreamExtract(ctx context.Context, imagePaths []string, onTotal func(total string)) (string, error)
}

// Grader streams grading feedback for an essay body.
type Grader interface {
	StreamGrade(ctx context.Context, body string, onTotal func(total string)) (string, error)
}

// Pipeline drives one grading run end to end: validate the batch, extract
// text, split title from body, grade the body, persist both artifacts, and
// append a history entry. Each run is strictly sequential; extraction fully
// completes before grading begins.
type Pipeline struct {
	cfg       config.Config
	history   *storage.HistoryStore
	extractor Extractor
	grader    Grader
}

// New builds a pipeline with the configured provider behind both gateway
// services.
func New(cfg config.Config) (*Pipeline, error) {
	extractor, err := extraction.NewService(cfg)
	if err != nil {
		return nil, err
	}
	grader, err := grading.NewService(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithServices(cfg, storage.NewHistoryStore(cfg.HistoryPath), extractor, grader), nil
}

// NewWithServices builds a pipeline with explicit collaborators.
func NewWithServices(cfg config.Config, history *storage.HistoryStore, extractor Extractor, grader Grader) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		history:   history,
		extractor: extractor,
		grader:    grader,
	}
}

// Run processes one uploaded batch, emitting a progress snapshot for every
// state change and every streamed content delta. The returned channel closes
// after the terminal snapshot: either status "done" carrying the new history
// entry, or status "error" carrying a human-readable message. There is no
// retry and a failed run persists nothing.
func (p *Pipeline) Run(ctx context.Context, batch []string) <-chan models.Snapshot {
	snapshots := make(chan models.Snapshot, 16)

	go func() {
		defer close(snapshots)
		p.run(ctx, batch, snapshots)
	}()

	return snapshots
}

func (p *Pipeline) run(ctx context.Context, batch []string, snapshots chan<- models.Snapshot) {
	snapshots <- models.Snapshot{Status: models.StatusValidating}
	if err := p.Validate(batch); err != nil {
		slog.Error("Batch validation failed", "err", err)
		snapshots <- models.Snapshot{Status: models.StatusFailed, Message: err.Error()}
		return
	}

	snapshots <- models.Snapshot{Status: models.StatusExtracting}
	extracted, err := p.extractor.StreamExtract(ctx, batch, func(total string) {
		snapshots <- models.Snapshot{Status: models.StatusExtracting, ExtractedText: total}
	})
	if err != nil {
		slog.Error("Extraction failed", "err", err)
		snapshots <- models.Snapshot{Status: models.StatusFailed, Message: err.Error()}
		return
	}

	snapshots <- models.Snapshot{Status: models.StatusSplitting, ExtractedText: extracted}
	title, body := SplitTitleBody(extracted)
	slog.Info("Split extraction result", "title", title, "body_length", len(body))

	snapshots <- models.Snapshot{Status: models.StatusGrading}
	rate, err := p.grader.StreamGrade(ctx, body, func(total string) {
		snapshots <- models.Snapshot{Status: models.StatusGrading, GradingText: total}
	})
	if err != nil {
		slog.Error("Grading failed", "err", err)
		snapshots <- models.Snapshot{Status: models.StatusFailed, Message: err.Error()}
		return
	}

	snapshots <- models.Snapshot{Status: models.StatusPersisting}
	textPath, err := storage.SaveArtifact(body, p.cfg.TextsDir, title)
	if err != nil {
		slog.Error("Failed to save essay text", "err", err)
		snapshots <- models.Snapshot{Status: models.StatusFailed, Message: err.Error()}
		return
	}
	ratePath, err := storage.SaveArtifact(rate, p.cfg.RatesDir, title+"_feedback")
	if err != nil {
		slog.Error("Failed to save grading result", "err", err)
		snapshots <- models.Snapshot{Status: models.StatusFailed, Message: err.Error()}
		return
	}

	entry := models.HistoryEntry{
		Title:     title,
		Timestamp: time.Now().Format("2006-01-02 15:04"),
		TextPath:  textPath,
		RatePath:  ratePath,
	}
	updated, err := p.history.Append(entry)
	if err != nil {
		slog.Error("Failed to update history", "err", err)
		snapshots <- models.Snapshot{Status: models.StatusFailed, Message: err.Error()}
		return
	}

	slog.Info("Grading run complete", "title", title, "text_path", textPath, "rate_path", ratePath)
	snapshots <- models.Snapshot{
		Status:   models.StatusDone,
		TextPath: textPath,
		RatePath: ratePath,
		Entry:    &entry,
		History:  updated,
	}
}
