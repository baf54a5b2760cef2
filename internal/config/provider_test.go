// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/lazypkg/lazypkg/pkg/types"
)

func TestLoadOptions_Validate_AllEmpty(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{}
	if err := opts.Validate(); err != nil {
		t.Errorf("empty LoadOptions should be valid, got error: %v", err)
	}
}

func TestLoadOptions_Validate_AllValid(t *testing.T) {
	t.Parallel()
	opts := LoadOptions{
		ConfigFilePath: "/tmp/config.cue",
		ConfigDirPath:  "/tmp/config",
		BaseDir:        "/tmp/base",
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("LoadOptions with valid paths should be valid, got error: %v", err)
	}
}

func TestLoadOptions_Validate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       LoadOptions
		wantFields int
	}{
		{"config file", LoadOptions{ConfigFilePath: types.FilesystemPath("   ")}, 1},
		{"config dir", LoadOptions{ConfigDirPath: types.FilesystemPath("\t")}, 1},
		{"base dir", LoadOptions{BaseDir: types.FilesystemPath("  \t  ")}, 1},
		{"all three", LoadOptions{ConfigFilePath: " ", ConfigDirPath: " ", BaseDir: " "}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if !errors.Is(err, ErrInvalidLoadOptions) {
				t.Fatalf("error should wrap ErrInvalidLoadOptions, got: %v", err)
			}
			var loadErr *InvalidLoadOptionsError
			if !errors.As(err, &loadErr) {
				t.Fatalf("error should be *InvalidLoadOptionsError, got: %T", err)
			}
			if len(loadErr.FieldErrors) != tt.wantFields {
				t.Errorf("expected %d field errors, got %d", tt.wantFields, len(loadErr.FieldErrors))
			}
			for _, fieldErr := range loadErr.FieldErrors {
				if !errors.Is(fieldErr, types.ErrInvalidFilesystemPath) {
					t.Errorf("field error should wrap ErrInvalidFilesystemPath, got: %v", fieldErr)
				}
			}
		})
	}
}
