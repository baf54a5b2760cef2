// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"github.com/lazypkg/lazypkg/pkg/manifest"
)

const (
	// MatchAny accepts both true and false.
	MatchAny Match = iota
	// MatchTrue accepts only true.
	MatchTrue
	// MatchFalse accepts only false.
	MatchFalse
)

// FallbackKeys is consulted, in order, when a dependency has no name for the
// active mode. The first key present wins.
var FallbackKeys = []manifest.PackageManagerKey{manifest.KeyDeb, manifest.KeyPkgbuild, manifest.KeyRpm}

// Match is a filter predicate on a boolean flag.
type Match int8

// Accepts reports whether v passes the predicate.
func (m Match) Accepts(v bool) bool {
	switch m {
	case MatchTrue:
		return v
	case MatchFalse:
		return !v
	default:
		return true
	}
}

// ResolveName returns the dependency name for mode: the mode's own key, or
// else the first of FallbackKeys that is present.
func ResolveName(mode Mode, d manifest.Dependency) (string, bool) {
	if name, ok := d.Name(mode.Key()); ok {
		return name, true
	}
	for _, key := range FallbackKeys {
		if name, ok := d.Name(key); ok {
			return name, true
		}
	}
	return "", false
}

// FilterDependencies returns, in declaration order, the resolved names of the
// dependencies whose build and required flags pass the given predicates.
func FilterDependencies(mode Mode, m *manifest.Manifest, build, required Match) []string {
	var out []string
	for _, d := range m.Dependencies {
		if !build.Accepts(d.IsBuild()) || !required.Accepts(d.IsRequired()) {
			continue
		}
		if name, ok := ResolveName(mode, d); ok {
			out = append(out, name)
		}
	}
	return out
}

// FilterRelationships returns, in declaration order, the names of the
// relationships whose role passes the predicates. provides tests "is a
// provides entry" and conflicts tests "is a conflicts entry".
// Relationships are the same for every mode.
func FilterRelationships(_ Mode, m *manifest.Manifest, provides, conflicts Match) []string {
	var out []string
	for _, r := range m.Relationships {
		if provides.Accepts(r.Role == manifest.RoleProvides) && conflicts.Accepts(r.Role == manifest.RoleConflicts) {
			out = append(out, r.Name)
		}
	}
	return out
}
