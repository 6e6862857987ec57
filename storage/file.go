package storage

import (
	"context"
	"fmt"
	"os"
)

// File stores the task blob as a single JSON file on local disk, for
// running without a Redis instance.
type File struct {
	path string
}

// NewFile creates a file backend at the given path. An empty path falls
// back to DefaultFile in the working directory.
func NewFile(path string) *File {
	if path == "" {
		path = DefaultFile
	}
	return &File{path: path}
}

// Load reads the saved blob. A missing file is reported as not found.
func (f *File) Load(ctx context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, true, nil
}

// Save writes the blob through a temp file and renames it into place so a
// crash mid-write never leaves a truncated collection behind.
func (f *File) Save(ctx context.Context, blob []byte) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
