package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"NewsNarrator/internal/ports"
)

// FileStore writes audio artifacts to the local filesystem.
type FileStore struct{}

var _ ports.AudioStore = FileStore{}

// Save writes data to path atomically and returns the cleaned path.
func (FileStore) Save(ctx context.Context, path string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path = filepath.Clean(path)
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// SaveText writes a text artifact such as the cleaned script.
func SaveText(path, text string) error {
	return writeFileAtomic(filepath.Clean(path), []byte(text+"\n"))
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it over path, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
