package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nhle/gtd/internal/model"
)

// FileAdapter persists the snapshot as a pretty-printed JSON file, the
// same document format the front ends read directly.
type FileAdapter struct {
	path string
}

// NewFileAdapter returns an adapter backed by the JSON file at path.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{path: path}
}

// Path returns the backing file path.
func (a *FileAdapter) Path() string { return a.path }

// GetData reads the snapshot from disk. A missing or empty file yields
// an empty snapshot rather than an error.
func (a *FileAdapter) GetData(_ context.Context) (model.AppData, error) {
	var data model.AppData

	raw, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			data.Normalize()
			return data, nil
		}
		return data, fmt.Errorf("reading %s: %w", a.path, err)
	}
	if len(raw) == 0 {
		data.Normalize()
		return data, nil
	}

	if err := json.Unmarshal(raw, &data); err != nil {
		return model.AppData{}, fmt.Errorf("decoding %s: %w", a.path, err)
	}
	data.Normalize()
	return data, nil
}

// SaveData writes the snapshot atomically: a temp file in the same
// directory is renamed over the target so readers never observe a
// half-written document.
func (a *FileAdapter) SaveData(_ context.Context, data model.AppData) error {
	data.Normalize()
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".gtd-data-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, a.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", a.path, err)
	}
	return nil
}
