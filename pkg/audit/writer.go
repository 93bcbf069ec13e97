package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer appends decision entries as JSON files under a base directory,
// one file per entry named <timestamp>__<id>.json.
type Writer struct {
	baseDir string
}

// NewWriter creates a writer rooted at baseDir.
func NewWriter(baseDir string) (*Writer, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &Writer{baseDir: baseDir}, nil
}

// Record writes one entry.
func (w *Writer) Record(_ context.Context, entry Entry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("%s__%s.json", entry.Timestamp.UTC().Format("20060102T150405Z"), entry.ID)
	return os.WriteFile(filepath.Join(w.baseDir, filename), data, 0644)
}
