package storage

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/LandyLee-gdut/essay-grader/internal/domain"
	"github.com/LandyLee-gdut/essay-grader/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// historyRecord is the flat row schema used for Parquet exports.
type historyRecord struct {
	Title     string `parquet:"title"`
	Timestamp string `parquet:"timestamp"`
	TextPath  string `parquet:"text_path"`
	RatePath  string `parquet:"rate_path"`
}

// historyDump is the document schema used for YAML exports.
type historyDump struct {
	GeneratedAt string         `yaml:"generated_at"`
	Count       int            `yaml:"count"`
	Entries     []historyEntry `yaml:"entries"`
}

type historyEntry struct {
	Title     string `yaml:"title"`
	Timestamp string `yaml:"timestamp"`
	TextPath  string `yaml:"textpath"`
	RatePath  string `yaml:"ratepath"`
}

// Export writes the grading history to path in the given format ("parquet"
// or "yaml"), for analysis outside the grader.
func Export(entries []models.HistoryEntry, path, format string) error {
	switch strings.ToLower(format) {
	case "parquet":
		return exportParquet(entries, path)
	case "yaml", "yml":
		return exportYAML(entries, path)
	default:
		return domain.ConfigurationError(fmt.Sprintf("unsupported export format: %s (supported: parquet, yaml)", format), nil)
	}
}

func exportParquet(entries []models.HistoryEntry, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return domain.StorageError("failed to create export file: "+path, err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[historyRecord](file)
	rows := make([]historyRecord, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, historyRecord{
			Title:     e.Title,
			Timestamp: e.Timestamp,
			TextPath:  e.TextPath,
			RatePath:  e.RatePath,
		})
	}
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			return domain.StorageError("failed to write parquet rows", err)
		}
	}
	if err := writer.Close(); err != nil {
		return domain.StorageError("failed to finalize parquet file", err)
	}
	return nil
}

func exportYAML(entries []models.HistoryEntry, path string) error {
	dump := historyDump{
		GeneratedAt: time.Now().Format("2006-01-02_15-04-05"),
		Count:       len(entries),
		Entries:     make([]historyEntry, 0, len(entries)),
	}
	for _, e := range entries {
		dump.Entries = append(dump.Entries, historyEntry{
			Title:     e.Title,
			Timestamp: e.Timestamp,
			TextPath:  e.TextPath,
			RatePath:  e.RatePath,
		})
	}

	data, err := yaml.Marshal(dump)
	if err != nil {
		return domain.StorageError("failed to encode history as YAML", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return domain.StorageError("failed to write export file: "+path, err)
	}
	return nil
}

// ReadParquetExport loads a previously exported Parquet history file. Used
// by the inspection tooling and tests.
func ReadParquetExport(path string) ([]models.HistoryEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, domain.StorageError("failed to open export file: "+path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, domain.StorageError("failed to stat export file", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, domain.StorageError("failed to open parquet file", err)
	}

	reader := parquet.NewGenericReader[historyRecord](pf)
	defer reader.Close()

	var entries []models.HistoryEntry
	rows := make([]historyRecord, 64)
	for {
		n, err := reader.Read(rows)
		for _, r := range rows[:n] {
			entries = append(entries, models.HistoryEntry{
				Title:     r.Title,
				Timestamp: r.Timestamp,
				TextPath:  r.TextPath,
				RatePath:  r.RatePath,
			})
		}
		if err != nil {
			break
		}
	}
	return entries, nil
}
