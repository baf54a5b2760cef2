// SPDX-License-Identifier: MPL-2.0

package fileio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lazypkg/lazypkg/pkg/cueutil"
	"github.com/lazypkg/lazypkg/pkg/types"
)

const (
	// FilePerm is the mode of ordinary generated files.
	FilePerm fs.FileMode = 0o644
	// ExecPerm is the mode of generated scripts.
	ExecPerm fs.FileMode = 0o755

	dirPerm fs.FileMode = 0o755
)

type (
	// OSReader reads manifests from the local filesystem.
	OSReader struct {
		// MaxSize bounds the manifest size. Zero means cueutil.DefaultMaxFileSize.
		MaxSize int64
	}

	// AtomicWriter writes files through a temporary sibling and a rename.
	AtomicWriter struct{}
)

// ReadManifest returns the content of the manifest at path.
func (r OSReader) ReadManifest(ctx context.Context, path types.FilesystemPath) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := path.Validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, err
	}

	maxSize := r.MaxSize
	if maxSize <= 0 {
		maxSize = cueutil.DefaultMaxFileSize
	}
	if err := cueutil.CheckFileSize(data, maxSize, string(path)); err != nil {
		return nil, err
	}
	return data, nil
}

// Exists reports whether a file or directory exists at path.
func (AtomicWriter) Exists(_ context.Context, path types.FilesystemPath) (bool, error) {
	_, err := os.Stat(string(path))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// WriteFile writes data to path with perm, creating parent directories.
// The previous content of path stays intact until the rename succeeds.
func (AtomicWriter) WriteFile(ctx context.Context, path types.FilesystemPath, data []byte, perm fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := path.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(string(path))
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(string(path))+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	// CreateTemp uses 0600; chmod explicitly so umask does not apply either.
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, string(path)); err != nil {
		_ = os.Remove(tmpPath) // Best-effort cleanup of temp file
		return fmt.Errorf("failed to rename %s: %w", path, err)
	}
	return nil
}

// Perm returns the file mode for a generated file.
func Perm(executable bool) fs.FileMode {
	if executable {
		return ExecPerm
	}
	return FilePerm
}
