// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"
	"strings"
	"time"

	"github.com/lazypkg/lazypkg/pkg/manifest"
)

const (
	// DebControlFile is the name of the generated Debian control file.
	DebControlFile = "debian/control"

	debHelperScript     = "debian/lazypkg.sh"
	debCompat           = "debhelper-compat (= 13)"
	debStandards        = "4.6.2"
	debDefaultSection   = "misc"
	debNoMaintainer     = "unknown <unknown@localhost>"
	debDefaultVersion   = "0"
	debChangelogMessage = "Generated by lazypkg."
)

func assembleDeb(m *manifest.Manifest, o Options) []File {
	files := []File{
		{Name: DebControlFile, Content: debControl(m)},
		{Name: "debian/changelog", Content: debChangelog(m, o.Timestamp)},
		{Name: "debian/rules", Content: debRules(m), Executable: true},
		{Name: debHelperScript, Content: debPhases(m, o), Executable: true, Shell: true},
	}
	return append(files, debMaintainerScripts(m, o)...)
}

func debControl(m *manifest.Manifest) string {
	const mode = ModeDeb

	var sb strings.Builder
	field := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "%s: %s\n", key, singleLine(value))
		}
	}
	name := m.Name.String()

	field("Source", name)
	field("Section", m.Group.Or(manifest.Some(debDefaultSection)).String())
	field("Priority", "optional")
	field("Maintainer", debMaintainer(m))
	if needsRoot(m) {
		field("Rules-Requires-Root", "binary-targets")
	}
	field("Build-Depends", strings.Join(append([]string{debCompat}, FilterDependencies(mode, m, MatchTrue, MatchAny)...), ", "))
	field("Standards-Version", debStandards)
	field("Homepage", m.Website.String())
	sb.WriteString("\n")

	field("Package", name)
	field("Architecture", "all")
	field("Depends", strings.Join(append([]string{"${misc:Depends}"}, FilterDependencies(mode, m, MatchFalse, MatchTrue)...), ", "))
	field("Recommends", strings.Join(FilterDependencies(mode, m, MatchFalse, MatchFalse), ", "))
	field("Provides", strings.Join(FilterRelationships(mode, m, MatchTrue, MatchAny), ", "))
	field("Conflicts", strings.Join(FilterRelationships(mode, m, MatchAny, MatchTrue), ", "))

	synopsis := m.ShortDescription().String()
	if synopsis == "" {
		synopsis = name
	}
	field("Description", synopsis)
	if m.Summary.IsSet() && m.Description.IsSet() && m.Description.String() != m.Summary.String() {
		for _, line := range strings.Split(strings.TrimSpace(m.Description.String()), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				line = "."
			}
			sb.WriteString(" " + line + "\n")
		}
	}
	return sb.String()
}

func debChangelog(m *manifest.Manifest, at time.Time) string {
	version := nonEmpty(m.Version.String(), debDefaultVersion)
	if m.Release.String() != "" {
		version += "-" + m.Release.String()
	}
	return fmt.Sprintf("%s (%s) unstable; urgency=medium\n\n  * %s\n\n -- %s  %s\n",
		m.Name, version, debChangelogMessage, debMaintainer(m), at.Format(time.RFC1123Z))
}

// debRules hands every dh build step that lazypkg controls to the phase script.
func debRules(m *manifest.Manifest) string {
	var sb strings.Builder
	sb.WriteString("#!/usr/bin/make -f\n\n%:\n\tdh $@\n")
	steps := []struct{ target, phase string }{
		{"override_dh_auto_configure", "prepare"},
		{"override_dh_auto_build", "build"},
		{"override_dh_auto_test", "check"},
	}
	for _, s := range steps {
		fmt.Fprintf(&sb, "\n%s:\n\tsh %s %s\n", s.target, debHelperScript, s.phase)
	}
	fmt.Fprintf(&sb, "\noverride_dh_auto_install:\n\tsh %s package \"$(CURDIR)/debian/%s\"\n", debHelperScript, m.Name)
	return sb.String()
}

// debPhases renders debian/lazypkg.sh. Its second argument is the staging root.
func debPhases(m *manifest.Manifest, o Options) string {
	const mode = ModeDeb
	pad := strings.Repeat(" ", o.Indent)

	body := func(block string) string {
		if block == "" {
			return emptyBody(o.Indent)
		}
		return block
	}

	var sb strings.Builder
	sb.WriteString("#!/bin/sh\nset -e\n\nDESTDIR=\"${2:-}\"\n\n")
	sb.WriteString(strings.Join([]string{
		shellFunction("prepare", body(FilterScripts(mode, m, manifest.HookPreBuild, o.Interpreter, o.Indent))),
		shellFunction("build", body(FilterScripts(mode, m, manifest.HookBuild, o.Interpreter, o.Indent))),
		shellFunction("check", body(FilterScripts(mode, m, manifest.HookPostBuild, o.Interpreter, o.Indent))),
		shellFunction("package", body(GenerateMovements(mode, m, o.Indent))),
	}, "\n"))
	sb.WriteString("\ncase \"$1\" in\n")
	sb.WriteString(pad + "prepare|build|check|package)\n")
	sb.WriteString(pad + pad + "\"$1\"\n")
	sb.WriteString(pad + pad + ";;\n")
	sb.WriteString(pad + "*)\n")
	sb.WriteString(pad + pad + "echo \"usage: $0 {prepare|build|check|package} [destdir]\" >&2\n")
	sb.WriteString(pad + pad + "exit 1\n")
	sb.WriteString(pad + pad + ";;\n")
	sb.WriteString("esac\n")
	return sb.String()
}

type debAction struct {
	// arm is the dpkg action matched by the case statement.
	arm string
	// call is the dispatch body, one command per line, unindented.
	call []string
}

// debMaintainerScripts renders the dpkg maintainer scripts for the declared lifecycle hooks.
func debMaintainerScripts(m *manifest.Manifest, o Options) []File {
	scripts := []struct {
		name    string
		hooks   []manifest.HookName
		actions []debAction
	}{
		{
			name:  "debian/preinst",
			hooks: []manifest.HookName{manifest.HookPreInstall, manifest.HookPreUpgrade},
			actions: []debAction{
				{arm: "install", call: []string{"pre_install"}},
				{arm: "upgrade", call: []string{"pre_upgrade"}},
			},
		},
		{
			name:  "debian/postinst",
			hooks: []manifest.HookName{manifest.HookPostInstall, manifest.HookPostUpgrade},
			actions: []debAction{
				{arm: "configure", call: []string{`if [ -z "$2" ]; then`, "\tpost_install", "else", "\tpost_upgrade", "fi"}},
			},
		},
		{
			name:    "debian/prerm",
			hooks:   []manifest.HookName{manifest.HookPreRemove},
			actions: []debAction{{arm: "remove", call: []string{"pre_remove"}}},
		},
		{
			name:    "debian/postrm",
			hooks:   []manifest.HookName{manifest.HookPostRemove},
			actions: []debAction{{arm: "remove", call: []string{"post_remove"}}},
		},
	}

	pad := strings.Repeat(" ", o.Indent)
	var files []File
	for _, s := range scripts {
		if !m.HasHook(s.hooks...) {
			continue
		}

		var sb strings.Builder
		sb.WriteString("#!/bin/sh\nset -e\n\n")
		for _, hook := range s.hooks {
			body := FilterScripts(ModeDeb, m, hook, o.HookInterpreter, o.Indent)
			if body == "" {
				body = emptyBody(o.Indent)
			}
			sb.WriteString(shellFunction(hook.String(), body) + "\n")
		}
		sb.WriteString("case \"$1\" in\n")
		for _, a := range s.actions {
			sb.WriteString(pad + a.arm + ")\n")
			for _, line := range a.call {
				sb.WriteString(pad + pad + strings.ReplaceAll(line, "\t", pad) + "\n")
			}
			sb.WriteString(pad + pad + ";;\n")
		}
		sb.WriteString("esac\n\n#DEBHELPER#\n\nexit 0\n")

		files = append(files, File{Name: s.name, Content: sb.String(), Executable: true, Shell: true})
	}
	return files
}

func debMaintainer(m *manifest.Manifest) string {
	if line := m.MaintainerLine(); line != "" {
		return line
	}
	return debNoMaintainer
}

func needsRoot(m *manifest.Manifest) bool {
	for _, mv := range m.Movements {
		if mv.Owner != "" {
			return true
		}
	}
	return false
}

// singleLine folds a value onto one line for header-style fields.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
