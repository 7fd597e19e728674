package models

import "time"

// HistoryEntry records one completed grading run. Entries are append-only;
// both paths point at files that existed when the entry was written.
type HistoryEntry struct {
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
	TextPath  string `json:"text_path"`
	RatePath  string `json:"rate_path"`
}

// GradingSession represents one uploaded batch of essay page images waiting
// to be (or being) graded.
type GradingSession struct {
	ID        string      `json:"id"`
	Images    []ImageItem `json:"images"`
	Provider  string      `json:"provider,omitempty"`
	Model     string      `json:"model,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// ImagePaths returns the on-disk paths of the session's images in upload order.
func (s *GradingSession) ImagePaths() []string {
	paths := make([]string, 0, len(s.Images))
	for _, img := range s.Images {
		paths = append(paths, img.ImagePath)
	}
	return paths
}

// ImageItem represents one uploaded essay page image.
type ImageItem struct {
	ID          string `json:"id"`
	ImagePath   string `json:"image_path"`
	ImageURL    string `json:"image_url"`
	ImageWidth  int    `json:"image_width"`
	ImageHeight int    `json:"image_height"`
}

// Status names a pipeline state. The pipeline moves strictly forward through
// Validating, Extracting, Splitting, Grading, Persisting, and Done; Failed is
// terminal and reachable from any non-terminal state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusValidating Status = "validating"
	StatusExtracting Status = "extracting"
	StatusSplitting  Status = "splitting"
	StatusGrading    Status = "grading"
	StatusPersisting Status = "persisting"
	StatusDone       Status = "done"
	StatusFailed     Status = "error"
)

// Snapshot is one progress update emitted by the pipeline. ExtractedText and
// GradingText carry the full text accumulated so far, never a delta, so a
// consumer can redraw idempotently from the latest snapshot alone.
type Snapshot struct {
	Status        Status         `json:"status"`
	ExtractedText string         `json:"extracted_text,omitempty"`
	GradingText   string         `json:"grading_text,omitempty"`
	Message       string         `json:"message,omitempty"`
	TextPath      string         `json:"text_path,omitempty"`
	RatePath      string         `json:"rate_path,omitempty"`
	Entry         *HistoryEntry  `json:"entry,omitempty"`
	History       []HistoryEntry `json:"history,omitempty"`
}
