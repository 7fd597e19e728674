package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LandyLee-gdut/essay-grader/internal/config"
	"github.com/LandyLee-gdut/essay-grader/internal/domain"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Load()
	dir := t.TempDir()
	cfg.TextsDir = filepath.Join(dir, "texts")
	cfg.RatesDir = filepath.Join(dir, "rates")
	cfg.HistoryPath = filepath.Join(dir, "history.json")
	cfg.MaxFileSizeMB = 1
	return cfg
}

func writeImage(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, bytes.Repeat([]byte{0xFF}, size), 0644); err != nil {
		t.Fatalf("Failed to write test image: %v", err)
	}
	return path
}

func TestValidate(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()

	valid := writeImage(t, dir, "essay.jpg", 2048)
	validPNG := writeImage(t, dir, "page2.PNG", 2048)
	oversized := writeImage(t, dir, "big.jpg", 1024*1024+1)
	wrongType := writeImage(t, dir, "essay.pdf", 2048)

	p := NewWithServices(cfg, nil, nil, nil)

	tests := []struct {
		name    string
		batch   []string
		wantErr string
	}{
		{
			name:  "valid batch",
			batch: []string{valid, validPNG},
		},
		{
			name:    "empty batch",
			batch:   nil,
			wantErr: "no images",
		},
		{
			name:    "missing file",
			batch:   []string{filepath.Join(dir, "nope.jpg")},
			wantErr: "does not exist",
		},
		{
			name:    "disallowed extension",
			batch:   []string{wrongType},
			wantErr: "unsupported file type",
		},
		{
			name:    "oversized file",
			batch:   []string{oversized},
			wantErr: "file too large",
		},
		{
			name:    "one bad file aborts the batch",
			batch:   []string{valid, wrongType},
			wantErr: "unsupported file type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Validate(tt.batch)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
			if !domain.IsKind(err, domain.KindValidation) {
				t.Errorf("Expected a validation error, got %v", err)
			}
		})
	}
}
