// SPDX-License-Identifier: MPL-2.0

package fileio

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/lazypkg/lazypkg/pkg/cueutil"
	"github.com/lazypkg/lazypkg/pkg/types"
)

func TestOSReader_ReadManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "onionr.yml")
	if err := os.WriteFile(path, []byte("name: onionr\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := OSReader{}.ReadManifest(context.Background(), types.FilesystemPath(path))
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if string(data) != "name: onionr\n" {
		t.Errorf("ReadManifest() = %q", data)
	}
}

func TestOSReader_ReadManifest_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	big := filepath.Join(dir, "big.yml")
	if err := os.WriteFile(big, []byte(strings.Repeat("a", 64)), 0o644); err != nil {
		t.Fatal(err)
	}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name   string
		ctx    context.Context
		reader OSReader
		path   string
		target error
	}{
		{"missing", context.Background(), OSReader{}, filepath.Join(dir, "missing.yml"), fs.ErrNotExist},
		{"too large", context.Background(), OSReader{MaxSize: 16}, big, cueutil.ErrFileTooLarge},
		{"blank path", context.Background(), OSReader{}, "  ", types.ErrInvalidFilesystemPath},
		{"canceled", canceled, OSReader{}, big, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.reader.ReadManifest(tt.ctx, types.FilesystemPath(tt.path))
			if !errors.Is(err, tt.target) {
				t.Errorf("ReadManifest() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestAtomicWriter_WriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "debian", "rules")
	w := AtomicWriter{}
	ctx := context.Background()

	if err := w.WriteFile(ctx, types.FilesystemPath(path), []byte("first"), ExecPerm); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := w.WriteFile(ctx, types.FilesystemPath(path), []byte("second"), ExecPerm); err != nil {
		t.Fatalf("WriteFile() overwrite error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != ExecPerm {
			t.Errorf("mode = %v, want %v", info.Mode().Perm(), ExecPerm)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory should only hold the target, got %d entries", len(entries))
	}
}

func TestAtomicWriter_Exists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	present := filepath.Join(dir, "PKGBUILD")
	if err := os.WriteFile(present, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	w := AtomicWriter{}
	ctx := context.Background()

	if ok, err := w.Exists(ctx, types.FilesystemPath(present)); err != nil || !ok {
		t.Errorf("Exists(present) = %v, %v; want true, nil", ok, err)
	}
	if ok, err := w.Exists(ctx, types.FilesystemPath(filepath.Join(dir, "absent"))); err != nil || ok {
		t.Errorf("Exists(absent) = %v, %v; want false, nil", ok, err)
	}
}

func TestPerm(t *testing.T) {
	t.Parallel()

	if Perm(true) != 0o755 {
		t.Errorf("Perm(true) = %v", Perm(true))
	}
	if Perm(false) != 0o644 {
		t.Errorf("Perm(false) = %v", Perm(false))
	}
}
