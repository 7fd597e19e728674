package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LandyLee-gdut/essay-grader/internal/domain"
)

// forbidden lists the characters stripped from titles before they become
// filenames.
const forbidden = `\/*?:"<>|`

// maxTitleLen caps the sanitized title length before the timestamp suffix.
const maxTitleLen = 50

// SanitizeTitle strips filesystem-hostile characters from a title and
// truncates it to 50 characters.
func SanitizeTitle(title string) string {
	title = strings.TrimSpace(title)
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if strings.ContainsRune(forbidden, r) {
			continue
		}
		b.WriteRune(r)
	}
	sanitized := []rune(b.String())
	if len(sanitized) > maxTitleLen {
		sanitized = sanitized[:maxTitleLen]
	}
	return string(sanitized)
}

// SaveArtifact writes content as a UTF-8 text file named
// "<sanitized-title>_<YYYYMMDD_HHMMSS>.txt" under directory, creating the
// directory if needed, and returns the absolute path. Two saves of the same
// title within the same second collide; that risk is accepted.
func SaveArtifact(content, directory, title string) (string, error) {
	absDir, err := filepath.Abs(directory)
	if err != nil {
		return "", domain.StorageError("failed to resolve directory: "+directory, err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", domain.StorageError("failed to create directory: "+absDir, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("%s_%s.txt", SanitizeTitle(title), timestamp)
	path := filepath.Join(absDir, name)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", domain.StorageError("failed to save file: "+path, err)
	}
	return path, nil
}
