// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"time"

	"github.com/lazypkg/lazypkg/pkg/manifest"
)

const (
	// DefaultInterpreter prefixes build-phase and lifecycle scripts.
	DefaultInterpreter = "sh "
	// DefaultIndent is the indentation of function bodies.
	DefaultIndent = 4
)

// ErrNilManifest is returned by Generate when no manifest is given.
var ErrNilManifest = errors.New("manifest is nil")

type (
	// Options tunes recipe generation. Zero fields take their defaults.
	Options struct {
		// Interpreter prefixes pre_build, build and post_build scripts.
		Interpreter string
		// HookInterpreter prefixes install, upgrade and remove scripts.
		HookInterpreter string
		// Indent is the number of spaces used inside shell functions.
		Indent int
		// Timestamp dates the debian changelog entry. Zero means the Unix epoch.
		Timestamp time.Time
	}

	// File is one generated file, named relative to the output directory
	// with forward slashes.
	File struct {
		Name    string
		Content string
		// Executable files are written with mode 0755.
		Executable bool
		// Shell files are shell scripts that Lint can parse.
		Shell bool
	}

	// Output is the result of Generate.
	Output struct {
		Mode Mode
		// Supported is false for modes Generate does not know; Files is then empty.
		Supported bool
		Files     []File
	}
)

// DefaultOptions returns the options used for zero fields.
func DefaultOptions() Options {
	return Options{
		Interpreter:     DefaultInterpreter,
		HookInterpreter: DefaultInterpreter,
		Indent:          DefaultIndent,
		Timestamp:       time.Unix(0, 0).UTC(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Interpreter == "" {
		o.Interpreter = d.Interpreter
	}
	if o.HookInterpreter == "" {
		o.HookInterpreter = d.HookInterpreter
	}
	if o.Indent <= 0 {
		o.Indent = d.Indent
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = d.Timestamp
	}
	return o
}

// Generate builds the recipe files for mode from m. It fails only when m is
// nil or its name is invalid. An unknown mode is not an error: the returned
// Output has Supported set to false and no files.
//
// Generate does not modify m and may be called concurrently.
func Generate(mode Mode, m *manifest.Manifest, opts Options) (*Output, error) {
	if m == nil {
		return nil, ErrNilManifest
	}
	if err := m.Name.Validate(); err != nil {
		return nil, err
	}

	r, ok := rulesFor(mode)
	if !ok {
		return &Output{Mode: mode}, nil
	}
	return &Output{Mode: mode, Supported: true, Files: r.assemble(m, opts.withDefaults())}, nil
}

// Primary returns the main recipe file: PKGBUILD, debian/control or the .spec file.
func (o *Output) Primary() (File, bool) {
	if len(o.Files) == 0 {
		return File{}, false
	}
	return o.Files[0], true
}

// File returns the generated file with the given name.
func (o *Output) File(name string) (File, bool) {
	for _, f := range o.Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}
