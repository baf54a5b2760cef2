// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/lazypkg/lazypkg/pkg/manifest"
)

// ErrInvalidInterpreter is returned by InterpreterPrefix for empty or unparsable commands.
var ErrInvalidInterpreter = errors.New("invalid interpreter")

// FilterScripts returns one line per script bound to hook, in declaration
// order, each being prependText followed by the script path quoted for the
// shell, indented by indentWidth spaces. Without matching scripts, or for an
// unsupported mode, it returns "".
func FilterScripts(mode Mode, m *manifest.Manifest, hook manifest.HookName, prependText string, indentWidth int) string {
	if !mode.IsSupported() {
		return ""
	}
	var lines []string
	for _, s := range m.ScriptsFor(hook) {
		lines = append(lines, prependText+shellquote.Join(s.Path))
	}
	return indentBlock(strings.Join(lines, "\n"), indentWidth)
}

// InterpreterPrefix turns a command such as "bash -e" into the prefix placed
// before script paths. Words are re-quoted for the shell and a trailing space
// is appended.
func InterpreterPrefix(command string) (string, error) {
	words, err := shellquote.Split(command)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidInterpreter, command, err)
	}
	if len(words) == 0 {
		return "", fmt.Errorf("%w: command is empty", ErrInvalidInterpreter)
	}
	return shellquote.Join(words...) + " ", nil
}
