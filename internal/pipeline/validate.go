package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LandyLee-gdut/essay-grader/internal/domain"
)

// Validate checks an uploaded batch before any network call is made.
// Validation is all-or-nothing: the first offending file aborts the batch.
func (p *Pipeline) Validate(batch []string) error {
	if len(batch) == 0 {
		return domain.ValidationError("no images uploaded", nil)
	}

	for _, path := range batch {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return domain.ValidationError("file does not exist: "+path, nil)
			}
			return domain.ValidationError("cannot access file: "+path, err)
		}

		ext := filepath.Ext(path)
		if !p.cfg.ExtensionAllowed(ext) {
			return domain.ValidationError("unsupported file type: "+ext, nil)
		}

		if info.Size() > p.cfg.MaxFileSizeBytes() {
			return domain.ValidationError(fmt.Sprintf("file too large: %s (%dMB)",
				filepath.Base(path), info.Size()/1024/1024), nil)
		}
	}
	return nil
}
