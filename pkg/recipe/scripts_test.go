// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"testing"

	"github.com/lazypkg/lazypkg/pkg/manifest"
)

func TestFilterScripts(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{
		Name: "demo",
		Scripts: []manifest.ScriptRef{
			{Hook: manifest.HookPostInstall, Path: "install/first.sh"},
			{Hook: manifest.HookBuild, Path: "build.sh"},
			{Hook: manifest.HookPostInstall, Path: "install/second.sh"},
			{Hook: manifest.HookPostRemove, Path: "unused.sh"},
			{Hook: manifest.HookPreRemove, Path: "old dir/clean up.sh"},
			{Hook: manifest.HookPreRemove, Path: "$HOME/x;y.sh"},
		},
	}

	tests := []struct {
		name    string
		mode    Mode
		hook    manifest.HookName
		prepend string
		indent  int
		want    string
	}{
		{"declaration order", ModePkgbuild, manifest.HookPostInstall, "bash ", 4, "    bash install/first.sh\n    bash install/second.sh"},
		{"single", ModeDeb, manifest.HookBuild, "sh ", 0, "sh build.sh"},
		{"no prefix", ModeRpm, manifest.HookBuild, "", 2, "  build.sh"},
		{"no scripts", ModePkgbuild, manifest.HookPreUpgrade, "sh ", 4, ""},
		{"unsupported mode", "apk", manifest.HookBuild, "sh ", 4, ""},
		{"quoted paths", ModeRpm, manifest.HookPreRemove, "sh ", 0, "sh 'old dir/clean up.sh'\nsh \\$HOME/x\\;y.sh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FilterScripts(tt.mode, m, tt.hook, tt.prepend, tt.indent); got != tt.want {
				t.Errorf("FilterScripts() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInterpreterPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		want    string
		wantErr bool
	}{
		{"sh", "sh ", false},
		{"  bash   -e ", "bash -e ", false},
		{`"/usr/bin/env" 'python3'`, "/usr/bin/env python3 ", false},
		{"", "", true},
		{"   ", "", true},
		{`sh "unterminated`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			got, err := InterpreterPrefix(tt.command)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInterpreter) {
					t.Errorf("InterpreterPrefix(%q) error = %v, want ErrInvalidInterpreter", tt.command, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("InterpreterPrefix(%q) error = %v", tt.command, err)
			}
			if got != tt.want {
				t.Errorf("InterpreterPrefix(%q) = %q, want %q", tt.command, got, tt.want)
			}
		})
	}
}

func TestFormatSources(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{
		Name: "demo",
		Sources: []manifest.SourceRef{
			{Git: "https://example.com/demo.git", Branch: "dev"},
			{Git: "https://example.com/extra.git"},
		},
	}

	want := `"${pkgname}-${pkgver}::git+https://example.com/demo.git#branch=dev" "${pkgname}-${pkgver}::git+https://example.com/extra.git#branch=master"`
	if got := FormatSources(ModePkgbuild, m, DoubleQuote); got != want {
		t.Errorf("FormatSources(pkgbuild) = %s, want %s", got, want)
	}
	for _, mode := range []Mode{ModeDeb, ModeRpm, "apk"} {
		if got := FormatSources(mode, m, DoubleQuote); got != "" {
			t.Errorf("FormatSources(%s) = %q, want empty", mode, got)
		}
	}
	if got := FormatSources(ModePkgbuild, &manifest.Manifest{Name: "demo"}, DoubleQuote); got != "" {
		t.Errorf("FormatSources() without sources = %q, want empty", got)
	}
}
