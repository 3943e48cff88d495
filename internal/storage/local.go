package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// path that refers to stdin or stdout
const StdStream = "-"

// LocalStorage reads transcripts from and writes them to the local filesystem
type LocalStorage struct {
	Stdin  io.Reader
	Stdout io.Writer
}

// NewLocalStorage creates a storage handler bound to the process streams
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
}

// Read returns the full contents of path, or of stdin for "-"
func (ls *LocalStorage) Read(path string) ([]byte, error) {
	if path == StdStream {
		data, err := io.ReadAll(ls.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Write hands fn a temporary file next to path and renames it into place
// once fn and the flush succeed. On any failure the temporary file is removed
// and path is left untouched. For "-" fn writes straight to stdout.
func (ls *LocalStorage) Write(path string, fn func(w io.Writer) error) (err error) {
	if path == StdStream {
		return fn(ls.Stdout)
	}

	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = fn(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
