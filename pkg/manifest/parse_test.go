// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lazypkg/lazypkg/pkg/types"
)

const onionrYAML = `name: onionr
version: 0.1
release: 1
summary: anonymous P2P communication platform
license: GPL
website: https://onionr.net
contact: contact@onionr.net
author: Kevin Froman
sources:
- git: https://gitlab.com/beardog/onionr.git
  branch: master
relationships:
- provides: onionr-daemon
- conflicts: onionr-git
dependencies:
- deb: git
  required: true
- deb: python3.7
  pkgbuild: python
  build: true
- rpm: libsodium
  required: false
movements:
- install/onionr: /usr/bin/
  chown: root:root
  chmod: 755
- '*': /usr/share/onionr
  chmod: '0644'
scripts:
- pre_install: install/pre_install.sh
- post_install: install/post_install.sh
`

func TestParseBytesYAML(t *testing.T) {
	t.Parallel()

	m, err := ParseBytes([]byte(onionrYAML), "onionr.yml")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	if m.Name != "onionr" || m.Version.String() != "0.1" || m.Release.String() != "1" {
		t.Errorf("name/version/release = %q %q %q", m.Name, m.Version, m.Release)
	}
	if m.Group.IsSet() || m.Maintainer.IsSet() {
		t.Error("absent fields reported as set")
	}
	if !reflect.DeepEqual([]string(m.License), []string{"GPL"}) {
		t.Errorf("License = %v, want [GPL]", m.License)
	}
	if m.FilePath != types.FilesystemPath("onionr.yml") {
		t.Errorf("FilePath = %q", m.FilePath)
	}

	if len(m.Relationships) != 2 || m.Relationships[1].Role != RoleConflicts || m.Relationships[1].Name != "onionr-git" {
		t.Errorf("Relationships = %+v", m.Relationships)
	}

	if len(m.Dependencies) != 3 {
		t.Fatalf("len(Dependencies) = %d, want 3", len(m.Dependencies))
	}
	python := m.Dependencies[1]
	if name, _ := python.Name(KeyPkgbuild); name != "python" || !python.IsBuild() || !python.IsRequired() {
		t.Errorf("python dependency = %+v", python)
	}
	if m.Dependencies[2].IsRequired() {
		t.Error("required: false not honoured")
	}

	mv := m.Movements[0]
	if mv.Source != "install/onionr" || mv.Destination != "/usr/bin/" || mv.Mode != "755" || mv.Owner != "root:root" {
		t.Errorf("Movements[0] = %+v", mv)
	}
	if m.Movements[1].Source != "*" || m.Movements[1].Mode != "0644" {
		t.Errorf("Movements[1] = %+v", m.Movements[1])
	}

	want := []ScriptRef{
		{Hook: HookPreInstall, Path: "install/pre_install.sh"},
		{Hook: HookPostInstall, Path: "install/post_install.sh"},
	}
	if !reflect.DeepEqual(m.Scripts, want) {
		t.Errorf("Scripts = %+v, want %+v", m.Scripts, want)
	}
}

func TestParseBytesKeepsScalarText(t *testing.T) {
	t.Parallel()

	m, err := ParseBytes([]byte("name: pkg\nversion: 0.10\nrelease: 1.0\nlicense: [GPL, 3]\n"), "pkg.yaml")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if m.Version.String() != "0.10" {
		t.Errorf("Version = %q, want %q", m.Version, "0.10")
	}
	if m.Release.String() != "1.0" {
		t.Errorf("Release = %q, want %q", m.Release, "1.0")
	}
	if !reflect.DeepEqual([]string(m.License), []string{"GPL", "3"}) {
		t.Errorf("License = %v", m.License)
	}
}

func TestParseBytesCUE(t *testing.T) {
	t.Parallel()

	src := `name: "onionr"
version: "0.1"
license: ["GPL", "MIT"]
dependencies: [
	{deb: "git"},
	{deb: "python3.7", pkgbuild: "python", build: true},
]
movements: [
	{"install/onionr": "/usr/bin/", chmod: 755},
]
scripts: [{post_install: "install/post_install.sh"}]
`
	m, err := ParseBytes([]byte(src), "onionr.cue")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if m.Version.String() != "0.1" || len(m.License) != 2 {
		t.Errorf("Version = %q License = %v", m.Version, m.License)
	}
	if len(m.Dependencies) != 2 || !m.Dependencies[1].IsBuild() {
		t.Errorf("Dependencies = %+v", m.Dependencies)
	}
	if m.Movements[0].Source != "install/onionr" || m.Movements[0].Mode != "755" {
		t.Errorf("Movements = %+v", m.Movements)
	}
	if m.Scripts[0].Hook != HookPostInstall {
		t.Errorf("Scripts = %+v", m.Scripts)
	}
}

func TestParseBytesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      string
		wantIs    []error
		wantField string
	}{
		{
			name:   "empty document",
			data:   "\n  \n",
			wantIs: []error{ErrMalformedManifest},
		},
		{
			name:   "missing name",
			data:   "version: 1\n",
			wantIs: []error{ErrMalformedManifest},
		},
		{
			name:   "unknown top-level field",
			data:   "name: pkg\nhomepage: x\n",
			wantIs: []error{ErrMalformedManifest},
		},
		{
			name:   "unknown hook",
			data:   "name: pkg\nscripts:\n- on_boot: boot.sh\n",
			wantIs: []error{ErrMalformedManifest},
		},
		{
			name:   "unknown package manager key",
			data:   "name: pkg\ndependencies:\n- apk: git\n",
			wantIs: []error{ErrMalformedManifest},
		},
		{
			name:   "invalid yaml",
			data:   "name: [pkg\n",
			wantIs: []error{ErrMalformedManifest},
		},
		{
			name:      "invalid name",
			data:      "name: bad name!\n",
			wantIs:    []error{ErrInvalidManifest, ErrInvalidPackageName},
			wantField: "name",
		},
		{
			name:      "bad chmod",
			data:      "name: pkg\nmovements:\n- bin/x: /usr/bin/\n  chmod: 9999\n",
			wantIs:    []error{ErrInvalidManifest, ErrInvalidFileMode},
			wantField: "movements[0].chmod",
		},
		{
			name:      "bad chown",
			data:      "name: pkg\nmovements:\n- bin/x: /usr/bin/\n  chown: 'root:'\n",
			wantIs:    []error{ErrInvalidManifest, ErrInvalidOwner},
			wantField: "movements[0].chown",
		},
		{
			name:      "two paths in one movement",
			data:      "name: pkg\nmovements:\n- bin/x: /usr/bin/\n  bin/y: /usr/bin/\n",
			wantIs:    []error{ErrInvalidManifest},
			wantField: "movements[0]",
		},
		{
			name:      "movement without path",
			data:      "name: pkg\nmovements:\n- chmod: 755\n",
			wantIs:    []error{ErrInvalidManifest},
			wantField: "movements[0]",
		},
		{
			name:      "two hooks in one script entry",
			data:      "name: pkg\nscripts:\n- pre_install: a.sh\n  post_install: b.sh\n",
			wantIs:    []error{ErrInvalidManifest},
			wantField: "scripts[0]",
		},
		{
			name:      "relationship with both roles",
			data:      "name: pkg\nrelationships:\n- provides: a\n  conflicts: b\n",
			wantIs:    []error{ErrInvalidManifest},
			wantField: "relationships[0]",
		},
		{
			name:      "dependency without a name",
			data:      "name: pkg\ndependencies:\n- build: true\n",
			wantIs:    []error{ErrInvalidManifest},
			wantField: "dependencies[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := ParseBytes([]byte(tt.data), "pkg.yml")
			if err == nil {
				t.Fatalf("ParseBytes() = %+v, want error", m)
			}
			for _, target := range tt.wantIs {
				if !errors.Is(err, target) {
					t.Errorf("error %q does not match %v", err, target)
				}
			}
			if tt.wantField == "" {
				return
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("error is %T, want ValidationErrors", err)
			}
			if verrs[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verrs[0].Field, tt.wantField)
			}
		})
	}
}

func TestValidationErrorsCollectsEverything(t *testing.T) {
	t.Parallel()

	data := "name: bad name!\nmovements:\n- bin/x: /usr/bin/\n  chmod: 9\n  chown: ':x'\n"
	_, err := ParseBytes([]byte(data), "pkg.yml")

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error is %T, want ValidationErrors", err)
	}
	if len(verrs) != 3 {
		t.Fatalf("len(errors) = %d, want 3: %v", len(verrs), err)
	}
	if !strings.HasPrefix(err.Error(), "validation failed with 3 errors:") {
		t.Errorf("Error() = %q", err)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "onionr.yml")
	if err := os.WriteFile(path, []byte(onionrYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Parse(types.FilesystemPath(path))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if m.Name != "onionr" {
		t.Errorf("Name = %q", m.Name)
	}

	if _, err := Parse(types.FilesystemPath(filepath.Join(dir, "missing.yml"))); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Parse(missing) error = %v, want os.ErrNotExist", err)
	}
	if _, err := Parse(""); !errors.Is(err, types.ErrInvalidFilesystemPath) {
		t.Errorf("Parse(\"\") error = %v, want ErrInvalidFilesystemPath", err)
	}
}
