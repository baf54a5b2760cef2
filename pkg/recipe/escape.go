// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"
	"strings"

	"github.com/lazypkg/lazypkg/pkg/manifest"
)

const (
	// DoubleQuote wraps values in "..." (variables still expand).
	DoubleQuote Quote = '"'
	// SingleQuote wraps values in '...'.
	SingleQuote Quote = '\''
)

// singleQuoteEscape closes the quote, emits a double-quoted ', and reopens it.
const singleQuoteEscape = `'"'"'`

// Quote is the quoting style used when a value is embedded in shell text.
type Quote byte

// String returns the quote character.
func (q Quote) String() string { return string(rune(q)) }

// Escape stringifies value, doubles every backslash and escapes q so that the
// result can be placed between two q characters.
func Escape(value any, q Quote) string {
	s := strings.ReplaceAll(stringify(value), `\`, `\\`)
	if q == SingleQuote {
		return strings.ReplaceAll(s, "'", singleQuoteEscape)
	}
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Unescape reverses Escape: Unescape(Escape(s, q), q) == s.
func Unescape(s string, q Quote) string {
	if q == SingleQuote {
		s = strings.ReplaceAll(s, singleQuoteEscape, "'")
		return strings.ReplaceAll(s, `\\`, `\`)
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// FormatList renders values as a space-separated list of quoted, escaped
// elements: "a" "b". A single string (or any scalar) is a one-element list;
// an empty list renders as "".
func FormatList(values any, q Quote) string {
	items := listItems(values)
	if len(items) == 0 {
		return ""
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = q.String() + Escape(item, q) + q.String()
	}
	return strings.Join(quoted, " ")
}

func listItems(values any) []string {
	switch v := values.(type) {
	case nil:
		return nil
	case []string:
		return v
	case manifest.StringList:
		return v
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = stringify(item)
		}
		return out
	default:
		return []string{stringify(v)}
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
