// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// WriteAtomic streams write's output into a temp file in path's directory
// and renames it over path on success, so readers never observe a partial
// file. The temp file is removed on any failure. Returns the final size.
func WriteAtomic(path string, perm os.FileMode, write func(io.Writer) error) (size int64, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("creating temporary file: %w", err)
	}

	defer func() {
		tmp.Close() //nolint:gosec // best-effort cleanup

		if err != nil {
			os.Remove(tmp.Name()) //nolint:gosec // best-effort cleanup
		}
	}()

	if err := write(tmp); err != nil {
		return 0, err
	}

	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return 0, fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("renaming output file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", path, err)
	}

	return info.Size(), nil
}

// PreserveTimes sets path's access and modification times to modTime.
func PreserveTimes(path string, modTime time.Time) error {
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		return fmt.Errorf("preserving timestamps: %w", err)
	}

	return nil
}
