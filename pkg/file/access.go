package file

import (
	"fmt"
	"os"
)

// Access is the file-system surface the translation pipeline needs.
// Errors keep their fs cause so callers can test for fs.ErrNotExist or
// fs.ErrPermission.
type Access interface {
	ReadText(path string) (string, error)
	WriteText(path, content string) error
	DeleteFile(path string) error
}

// OSAccess implements Access on the local file system.
type OSAccess struct{}

func NewOSAccess() OSAccess {
	return OSAccess{}
}

func (OSAccess) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// WriteText writes through a temp file and renames it into place, so a crash
// never leaves a half-written output behind. The temp file is synced before
// the rename because the caller deletes the source right after.
func (OSAccess) WriteText(path, content string) error {
	tmpPath := path + ".tmp"
	if err := writeSynced(tmpPath, content); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func writeSynced(path, content string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (OSAccess) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
