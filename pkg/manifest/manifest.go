// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"maps"
	"slices"

	"github.com/lazypkg/lazypkg/pkg/types"
)

// DefaultBranch is the branch used for a git source without an explicit branch.
const DefaultBranch = "master"

type (
	// Manifest is the parsed form of a lazypkg package manifest.
	//
	// A Manifest is produced by Parse, ParseBytes or Sample and is treated as
	// read-only afterwards. Recipe generation never modifies it, so one value
	// may be shared by concurrent generators.
	Manifest struct {
		Name        PackageName `yaml:"name"`
		Version     Text        `yaml:"version"`
		Release     Text        `yaml:"release"`
		Group       Text        `yaml:"group"`
		Summary     Text        `yaml:"summary"`
		Description Text        `yaml:"description"`
		License     StringList  `yaml:"license"`
		Website     Text        `yaml:"website"`
		Contact     Text        `yaml:"contact"`
		Maintainer  Text        `yaml:"maintainer"`
		// Author is used in place of Maintainer when the latter is absent.
		Author Text `yaml:"author"`

		Sources       []SourceRef    `yaml:"sources"`
		Relationships []Relationship `yaml:"relationships"`
		Dependencies  []Dependency   `yaml:"dependencies"`
		Movements     []Movement     `yaml:"movements"`
		Scripts       []ScriptRef    `yaml:"scripts"`

		// FilePath is where the manifest was read from, if anywhere.
		FilePath types.FilesystemPath `yaml:"-"`
	}

	// Text is an optional scalar field. Numbers and booleans written in the
	// manifest keep their source text, so "0.10" stays "0.10".
	// The zero value is an absent field.
	Text struct {
		value string
		set   bool
	}

	// StringList is a field that accepts a single string or a list of strings.
	// A nil StringList is an absent field.
	StringList []string

	// SourceRef is a git repository to fetch at build time.
	SourceRef struct {
		Git    string
		Branch string
	}

	// Relationship declares that this package provides or conflicts with another.
	Relationship struct {
		Role RelationshipRole
		Name string

		extra []string
	}

	// Dependency names a package this package needs, with per package
	// manager names. Build and Required are nil when not written.
	Dependency struct {
		Names    map[PackageManagerKey]string
		Build    *bool
		Required *bool

		unknown []string
	}

	// Movement copies Source (a path relative to the build directory, which
	// may contain glob characters) into the Destination directory of the
	// installed package, optionally applying Mode and Owner.
	Movement struct {
		Source      string
		Destination string
		Mode        FileMode
		Owner       Owner

		extra []string
	}

	// ScriptRef runs the script at Path when Hook fires.
	ScriptRef struct {
		Hook HookName
		Path string

		extra []string
	}
)

// Some returns a present Text holding s.
func Some(s string) Text { return Text{value: s, set: true} }

// String returns the text, or "" when absent.
func (t Text) String() string { return t.value }

// IsSet reports whether the field was written in the manifest.
func (t Text) IsSet() bool { return t.set }

// Or returns t when set, otherwise other.
func (t Text) Or(other Text) Text {
	if t.set {
		return t
	}
	return other
}

// Values returns a copy of the list.
func (l StringList) Values() []string { return slices.Clone([]string(l)) }

// EffectiveBranch returns the branch, defaulting to DefaultBranch.
func (s SourceRef) EffectiveBranch() string {
	if s.Branch == "" {
		return DefaultBranch
	}
	return s.Branch
}

// NewDependency returns a Dependency with the given names and default flags
// (not a build dependency, required).
func NewDependency(names map[PackageManagerKey]string) Dependency {
	return Dependency{Names: maps.Clone(names)}
}

// WithBuild returns a copy of d with the build flag set.
func (d Dependency) WithBuild(build bool) Dependency {
	d.Names = maps.Clone(d.Names)
	d.Build = &build
	return d
}

// WithRequired returns a copy of d with the required flag set.
func (d Dependency) WithRequired(required bool) Dependency {
	d.Names = maps.Clone(d.Names)
	d.Required = &required
	return d
}

// Name returns the dependency name for key.
func (d Dependency) Name(key PackageManagerKey) (string, bool) {
	name, ok := d.Names[key]
	return name, ok
}

// IsBuild reports whether the dependency is only needed to build. Default false.
func (d Dependency) IsBuild() bool { return d.Build != nil && *d.Build }

// IsRequired reports whether the dependency is mandatory. Default true.
func (d Dependency) IsRequired() bool { return d.Required == nil || *d.Required }

// ShortDescription returns the summary, falling back to the description.
func (m *Manifest) ShortDescription() Text {
	return m.Summary.Or(m.Description)
}

// MaintainerLine returns "Name <contact>" built from maintainer (or author)
// and contact. Either part may be missing; "" means neither is set.
func (m *Manifest) MaintainerLine() string {
	name := m.Maintainer.Or(m.Author).String()
	contact := m.Contact.String()
	switch {
	case name != "" && contact != "":
		return name + " <" + contact + ">"
	case contact != "":
		return "<" + contact + ">"
	default:
		return name
	}
}

// ScriptsFor returns the scripts bound to hook in declaration order.
func (m *Manifest) ScriptsFor(hook HookName) []ScriptRef {
	var out []ScriptRef
	for _, s := range m.Scripts {
		if s.Hook == hook {
			out = append(out, s)
		}
	}
	return out
}

// HasHook reports whether any script is bound to one of hooks.
func (m *Manifest) HasHook(hooks ...HookName) bool {
	for _, s := range m.Scripts {
		if slices.Contains(hooks, s.Hook) {
			return true
		}
	}
	return false
}

// HasLifecycleHooks reports whether any install, upgrade or remove script is declared.
func (m *Manifest) HasLifecycleHooks() bool {
	return m.HasHook(LifecycleHooks()...)
}
