// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidManifest is matched by every ValidationErrors value.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrMalformedManifest is returned when a manifest cannot be parsed or does
	// not match the manifest schema.
	ErrMalformedManifest = errors.New("malformed manifest")

	errMissingValue = errors.New("must not be empty")
)

type (
	// ValidationError is a single problem found in a manifest.
	ValidationError struct {
		// Field is the path of the offending value, e.g. "movements[1].chmod".
		Field string
		// Err describes the problem. It often wraps one of the package sentinels.
		Err error
	}

	// ValidationErrors collects every problem found by Manifest.Validate.
	ValidationErrors []ValidationError

	// ParseError is returned when a manifest file cannot be decoded.
	ParseError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap returns the underlying problem.
func (e ValidationError) Unwrap() error { return e.Err }

// Error implements the error interface by listing every problem.
func (errs ValidationErrors) Error() string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "validation failed with %d errors:", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Unwrap exposes every problem to errors.Is and errors.As.
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// Is lets errors.Is(err, ErrInvalidManifest) match any validation failure.
func (errs ValidationErrors) Is(target error) bool {
	return target == ErrInvalidManifest
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrMalformedManifest and the underlying cause.
func (e *ParseError) Unwrap() []error { return []error{ErrMalformedManifest, e.Err} }

// Validate checks every field and returns all problems as ValidationErrors,
// or nil when the manifest is usable for recipe generation.
func (m *Manifest) Validate() error {
	var errs ValidationErrors
	add := func(field string, err error) {
		errs = append(errs, ValidationError{Field: field, Err: err})
	}

	if err := m.Name.Validate(); err != nil {
		add("name", err)
	}

	for i, s := range m.Sources {
		if strings.TrimSpace(s.Git) == "" {
			add(fmt.Sprintf("sources[%d].git", i), errMissingValue)
		}
	}

	for i, r := range m.Relationships {
		field := fmt.Sprintf("relationships[%d]", i)
		switch {
		case len(r.extra) > 0:
			add(field, fmt.Errorf("exactly one of provides or conflicts is allowed, got extra %s", strings.Join(r.extra, ", ")))
		case r.Role != RoleProvides && r.Role != RoleConflicts:
			add(field, fmt.Errorf("unknown relationship %q (valid: provides, conflicts)", string(r.Role)))
		case r.Name == "":
			add(field+"."+string(r.Role), errMissingValue)
		}
	}

	for i, d := range m.Dependencies {
		field := fmt.Sprintf("dependencies[%d]", i)
		for _, key := range d.unknown {
			add(field, &InvalidPackageManagerKeyError{Value: PackageManagerKey(key)})
		}
		if len(d.Names) == 0 && len(d.unknown) == 0 {
			add(field, errors.New("at least one of deb, pkgbuild or rpm is required"))
		}
		for _, key := range PackageManagerKeys() {
			if name, ok := d.Names[key]; ok && strings.TrimSpace(name) == "" {
				add(field+"."+string(key), errMissingValue)
			}
		}
	}

	for i, mv := range m.Movements {
		field := fmt.Sprintf("movements[%d]", i)
		switch {
		case len(mv.extra) > 0:
			add(field, fmt.Errorf("exactly one source path is allowed, got extra %s", strings.Join(mv.extra, ", ")))
		case mv.Source == "":
			add(field, errors.New("a source path mapped to a destination is required"))
		case mv.Destination == "":
			add(field+"."+mv.Source, errMissingValue)
		}
		if mv.Mode != "" {
			if err := mv.Mode.Validate(); err != nil {
				add(field+".chmod", err)
			}
		}
		if mv.Owner != "" {
			if err := mv.Owner.Validate(); err != nil {
				add(field+".chown", err)
			}
		}
	}

	for i, s := range m.Scripts {
		field := fmt.Sprintf("scripts[%d]", i)
		switch {
		case len(s.extra) > 0:
			add(field, fmt.Errorf("exactly one hook per entry is allowed, got extra %s", strings.Join(s.extra, ", ")))
		case s.Hook == "":
			add(field, errors.New("a hook mapped to a script path is required"))
		default:
			if err := s.Hook.Validate(); err != nil {
				add(field, err)
			} else if strings.TrimSpace(s.Path) == "" {
				add(field+"."+string(s.Hook), errMissingValue)
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
