// Package atomicfile writes files through a temporary file and a rename so
// readers never observe a partial export.
package atomicfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Save writes data to path atomically.
func Save(path string, data []byte, perm os.FileMode) error {
	return Write(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Write streams the output of fill into a temporary file next to path and
// renames it into place once fill and the sync succeed. Missing parent
// directories are created.
func Write(path string, perm os.FileMode, fill func(w io.Writer) error) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("atomicfile: path is required")
	}
	if perm == 0 {
		perm = 0o644
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("atomicfile: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cleave-*.tmp")
	if err != nil {
		return fmt.Errorf("atomicfile: create temp: %w", err)
	}
	name := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(name)
		}
	}()

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("atomicfile: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("atomicfile: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("atomicfile: close temp: %w", err)
	}
	if err := os.Chmod(name, perm); err != nil {
		return fmt.Errorf("atomicfile: chmod temp: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		// Windows refuses to rename over an existing file.
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("atomicfile: replace file: %w", err)
		}
		if err := os.Rename(name, path); err != nil {
			return fmt.Errorf("atomicfile: replace file: %w", err)
		}
	}
	success = true
	return nil
}
