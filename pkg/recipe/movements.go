// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"strings"

	"github.com/lazypkg/lazypkg/pkg/manifest"
)

const (
	directoriesHeader = "# create destination directories"
	globChars         = "*?[]"
)

// installHelper is emitted once into PKGBUILD. It installs a file into the
// destination directory, or every file below a directory source while
// keeping paths relative to the source's parent.
const installHelper = `_lazypkg_install() {
    local flags=() src dir rel
    while [ "${1#--}" != "$1" ]; do
        flags+=("$1")
        shift
    done
    local dest="$1"
    shift
    for src in "$@"; do
        if [ -f "$src" ]; then
            install -D "${flags[@]}" -t "$dest" "$src"
        else
            dir="$(dirname "$src")"
            while IFS= read -r rel; do
                install -D "${flags[@]}" "$dir/$rel" "$dest/$rel"
            done < <(cd "$dir" && find "$(basename "$src")" -type f)
        fi
    done
}
`

// GenerateMovements renders the shell commands placing every movement under
// the mode's staging root, indented by indentWidth spaces. The first block
// creates the destination directories; the second places the files. A
// manifest without movements, or an unsupported mode, yields "".
func GenerateMovements(mode Mode, m *manifest.Manifest, indentWidth int) string {
	r, ok := rulesFor(mode)
	if !ok || len(m.Movements) == 0 {
		return ""
	}

	lines := []string{directoriesHeader}
	seen := make(map[string]bool, len(m.Movements))
	for _, mv := range m.Movements {
		dir := stagedPath(r.stagingRoot, mv.Destination)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		lines = append(lines, "mkdir -p "+dir)
	}
	lines = append(lines, "")

	for _, mv := range m.Movements {
		switch r.movements {
		case strategyStaged:
			lines = append(lines, stagedInstall(r.stagingRoot, mv))
		default:
			lines = append(lines, directCopy(r.stagingRoot, mv)...)
		}
	}
	return indentBlock(strings.Join(lines, "\n"), indentWidth)
}

func stagedInstall(root string, mv manifest.Movement) string {
	args := []string{"_lazypkg_install"}
	if mv.Mode != "" {
		args = append(args, "--mode="+mv.Mode.String())
	}
	if user := mv.Owner.User(); user != "" {
		args = append(args, "--owner="+user)
	}
	if group := mv.Owner.Group(); group != "" {
		args = append(args, "--group="+group)
	}
	args = append(args, stagedPath(root, mv.Destination), quotePath(mv.Source))
	return strings.Join(args, " ")
}

func directCopy(root string, mv manifest.Movement) []string {
	src := quotePath(mv.Source)
	var lines []string
	if mv.Mode != "" {
		lines = append(lines, "chmod -R "+mv.Mode.String()+" "+src)
	}
	if mv.Owner != "" {
		lines = append(lines, "chown -R "+mv.Owner.String()+" "+src)
	}
	return append(lines, "cp -rp "+src+" "+stagedPath(root, mv.Destination))
}

// stagedPath returns the double-quoted destination below root.
func stagedPath(root, dest string) string {
	if root != "" && !strings.HasPrefix(dest, "/") {
		dest = "/" + dest
	}
	return `"` + root + Escape(dest, DoubleQuote) + `"`
}

// quotePath double-quotes p while leaving glob characters outside the
// quotes, so "install/*.sh" becomes "install/"*".sh".
func quotePath(p string) string {
	if p == "" {
		return `""`
	}
	var out, lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			out.WriteString(`"` + Escape(lit.String(), DoubleQuote) + `"`)
			lit.Reset()
		}
	}
	for _, r := range p {
		if strings.ContainsRune(globChars, r) {
			flush()
			out.WriteRune(r)
			continue
		}
		lit.WriteRune(r)
	}
	flush()
	return out.String()
}

func hasGlob(p string) bool {
	return strings.ContainsAny(p, globChars)
}

// indentBlock trims every line and prefixes non-empty ones with width spaces.
// A block with no content yields "".
func indentBlock(block string, width int) string {
	if strings.TrimSpace(block) == "" {
		return ""
	}
	if width < 0 {
		width = 0
	}
	pad := strings.Repeat(" ", width)
	lines := strings.Split(strings.Trim(block, "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			line = pad + line
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
