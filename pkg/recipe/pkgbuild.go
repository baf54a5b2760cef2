// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"
	"strings"

	"github.com/lazypkg/lazypkg/pkg/manifest"
)

// PkgbuildFile is the name of the generated Arch recipe.
const PkgbuildFile = "PKGBUILD"

func assemblePkgbuild(m *manifest.Manifest, o Options) []File {
	const mode = ModePkgbuild

	var sb strings.Builder
	if line := m.MaintainerLine(); line != "" {
		fmt.Fprintf(&sb, "# Maintainer: %s\n", line)
	}
	writeString := func(key string, value manifest.Text) {
		if value.IsSet() {
			fmt.Fprintf(&sb, "%s=\"%s\"\n", key, Escape(value, DoubleQuote))
		}
	}
	writeArray := func(key string, values []string) {
		if len(values) > 0 {
			fmt.Fprintf(&sb, "%s=(%s)\n", key, FormatList(values, DoubleQuote))
		}
	}

	writeString("pkgname", manifest.Some(m.Name.String()))
	writeString("pkgver", m.Version)
	writeString("pkgrel", m.Release)
	if m.Group.IsSet() {
		writeArray("groups", []string{m.Group.String()})
	}
	writeArray("provides", FilterRelationships(mode, m, MatchTrue, MatchAny))
	writeArray("conflicts", FilterRelationships(mode, m, MatchAny, MatchTrue))
	writeArray("license", m.License.Values())
	writeArray("arch", []string{"any"})
	writeArray("md5sums", skipChecksums(len(m.Sources)))
	writeString("url", m.Website)
	writeString("pkgdesc", m.ShortDescription())
	if src := FormatSources(mode, m, DoubleQuote); src != "" {
		fmt.Fprintf(&sb, "source=(%s)\n", src)
	}
	writeArray("makedepends", FilterDependencies(mode, m, MatchTrue, MatchAny))
	writeArray("depends", FilterDependencies(mode, m, MatchFalse, MatchTrue))
	writeArray("optdepends", FilterDependencies(mode, m, MatchFalse, MatchFalse))

	hooksFile := m.Name.String() + ".install"
	if m.HasLifecycleHooks() {
		writeString("install", manifest.Some(hooksFile))
	}
	sb.WriteString("\n")

	enter := `cd "$startdir"`
	if len(m.Sources) > 0 {
		enter = `cd "$srcdir/${pkgname}-${pkgver}"`
	}
	phase := func(block string) string {
		if block == "" {
			return emptyBody(o.Indent)
		}
		return indentBlock(enter, o.Indent) + "\n" + block
	}

	blocks := []string{
		installHelper,
		shellFunction("prepare", phase(FilterScripts(mode, m, manifest.HookPreBuild, o.Interpreter, o.Indent))),
		shellFunction("build", phase(FilterScripts(mode, m, manifest.HookBuild, o.Interpreter, o.Indent))),
		shellFunction("check", phase(FilterScripts(mode, m, manifest.HookPostBuild, o.Interpreter, o.Indent))),
		shellFunction("package", phase(GenerateMovements(mode, m, o.Indent))),
	}
	sb.WriteString(strings.Join(blocks, "\n"))

	files := []File{{Name: PkgbuildFile, Content: sb.String(), Shell: true}}
	if m.HasLifecycleHooks() {
		files = append(files, File{Name: hooksFile, Content: pkgbuildHooks(m, o), Shell: true})
	}
	return files
}

// pkgbuildHooks renders the pacman install file with one function per lifecycle hook.
func pkgbuildHooks(m *manifest.Manifest, o Options) string {
	hooks := manifest.LifecycleHooks()
	blocks := make([]string, 0, len(hooks))
	for _, hook := range hooks {
		body := FilterScripts(ModePkgbuild, m, hook, o.HookInterpreter, o.Indent)
		if body == "" {
			body = emptyBody(o.Indent)
		}
		blocks = append(blocks, shellFunction(hook.String(), body))
	}
	return strings.Join(blocks, "\n")
}

// skipChecksums returns one "SKIP" per source; git sources cannot be summed.
// makepkg requires the array to match source, so no sources means no entries.
func skipChecksums(sources int) []string {
	sums := make([]string, sources)
	for i := range sums {
		sums[i] = "SKIP"
	}
	return sums
}

func shellFunction(name, body string) string {
	return name + "() {\n" + body + "\n}\n"
}

func emptyBody(indent int) string {
	return strings.Repeat(" ", max(indent, 0)) + ":"
}
