// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"
	"path"
	"strings"

	"github.com/lazypkg/lazypkg/pkg/manifest"
)

const (
	rpmDefaultVersion = "0"
	rpmDefaultRelease = "1"
	rpmTagWidth       = 15
	rpmFirstInstall   = `[ "$1" -eq 1 ]`
	rpmLastRemoval    = `[ "$1" -eq 0 ]`
)

func assembleRpm(m *manifest.Manifest, o Options) []File {
	const mode = ModeRpm

	var sb strings.Builder
	tag := func(key string, values ...string) {
		value := strings.Join(values, ", ")
		if value != "" {
			fmt.Fprintf(&sb, "%-*s %s\n", rpmTagWidth, key+":", singleLine(value))
		}
	}
	name := m.Name.String()
	summary := m.ShortDescription().String()
	if summary == "" {
		summary = name
	}

	tag("Name", name)
	tag("Version", nonEmpty(m.Version.String(), rpmDefaultVersion))
	tag("Release", nonEmpty(m.Release.String(), rpmDefaultRelease))
	tag("Summary", summary)
	tag("Group", m.Group.String())
	tag("License", strings.Join(m.License.Values(), " and "))
	tag("URL", m.Website.String())
	tag("Packager", m.MaintainerLine())
	tag("BuildArch", "noarch")
	tag("Provides", FilterRelationships(mode, m, MatchTrue, MatchAny)...)
	tag("Conflicts", FilterRelationships(mode, m, MatchAny, MatchTrue)...)
	tag("BuildRequires", FilterDependencies(mode, m, MatchTrue, MatchAny)...)
	tag("Requires", FilterDependencies(mode, m, MatchFalse, MatchTrue)...)
	tag("Recommends", FilterDependencies(mode, m, MatchFalse, MatchFalse)...)

	section := func(header, body string) {
		fmt.Fprintf(&sb, "\n%s\n", header)
		if body != "" {
			sb.WriteString(body + "\n")
		}
	}
	section("%description", strings.TrimSpace(m.Description.Or(manifest.Some(summary)).String()))
	section("%prep", FilterScripts(mode, m, manifest.HookPreBuild, o.Interpreter, 0))
	section("%build", FilterScripts(mode, m, manifest.HookBuild, o.Interpreter, 0))
	section("%check", FilterScripts(mode, m, manifest.HookPostBuild, o.Interpreter, 0))
	section("%install", GenerateMovements(mode, m, 0))

	scriptlets := []struct {
		header        string
		cond          string
		first, second manifest.HookName
	}{
		{"%pre", rpmFirstInstall, manifest.HookPreInstall, manifest.HookPreUpgrade},
		{"%post", rpmFirstInstall, manifest.HookPostInstall, manifest.HookPostUpgrade},
		{"%preun", rpmLastRemoval, manifest.HookPreRemove, ""},
		{"%postun", rpmLastRemoval, manifest.HookPostRemove, ""},
	}
	for _, s := range scriptlets {
		hooks := []manifest.HookName{s.first}
		if s.second != "" {
			hooks = append(hooks, s.second)
		}
		if !m.HasHook(hooks...) {
			continue
		}
		var second string
		if s.second != "" {
			second = FilterScripts(mode, m, s.second, o.HookInterpreter, o.Indent)
		}
		section(s.header, rpmConditional(s.cond, FilterScripts(mode, m, s.first, o.HookInterpreter, o.Indent), second, o.Indent))
	}

	section("%files", strings.Join(rpmFileList(m), "\n"))

	return []File{{Name: name + ".spec", Content: sb.String()}}
}

// rpmConditional runs then when cond holds and otherwise when it does not.
// An empty otherwise drops the else branch.
func rpmConditional(cond, then, otherwise string, indent int) string {
	if then == "" {
		then = emptyBody(indent)
	}
	lines := []string{"if " + cond + "; then", then}
	if otherwise != "" {
		lines = append(lines, "else", otherwise)
	}
	return strings.Join(append(lines, "fi"), "\n")
}

// rpmFileList lists what %install placed below the buildroot. A glob source is
// copied into its destination, so the destination itself is the entry.
// Movements with a mode or owner carry an %attr prefix.
func rpmFileList(m *manifest.Manifest) []string {
	seen := make(map[string]bool, len(m.Movements))
	var entries []string
	for _, mv := range m.Movements {
		dest := path.Clean("/" + mv.Destination)
		entry := dest
		if !hasGlob(mv.Source) {
			entry = path.Join(dest, path.Base(mv.Source))
		}
		if seen[entry] {
			continue
		}
		seen[entry] = true

		if mv.Mode != "" || mv.Owner != "" {
			entry = fmt.Sprintf("%%attr(%s, %s, %s) %s",
				nonEmpty(mv.Mode.String(), "-"),
				nonEmpty(mv.Owner.User(), "-"),
				nonEmpty(mv.Owner.Group(), "-"),
				entry)
		}
		entries = append(entries, entry)
	}
	return entries
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
