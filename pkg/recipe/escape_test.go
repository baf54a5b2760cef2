// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"testing"

	"github.com/lazypkg/lazypkg/pkg/manifest"
)

func TestEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		quote Quote
		want  string
	}{
		{"plain", "onionr", DoubleQuote, "onionr"},
		{"double quote", `say "hi"`, DoubleQuote, `say \"hi\"`},
		{"backslash", `a\b`, DoubleQuote, `a\\b`},
		{"single quote in double", "it's", DoubleQuote, "it's"},
		{"single quote", "it's", SingleQuote, `it'"'"'s`},
		{"double quote in single", `"x"`, SingleQuote, `"x"`},
		{"number", 1.5, DoubleQuote, "1.5"},
		{"text", manifest.Some(`v"1`), DoubleQuote, `v\"1`},
		{"nil", nil, DoubleQuote, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Escape(tt.value, tt.quote); got != tt.want {
				t.Errorf("Escape(%v, %s) = %q, want %q", tt.value, tt.quote, got, tt.want)
			}
		})
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain",
		`back\slash`,
		`trailing\`,
		`"quoted"`,
		"it's",
		`mixed '"\ all`,
		`\"`,
		`'"'"'`,
	}

	for _, q := range []Quote{DoubleQuote, SingleQuote} {
		for _, in := range inputs {
			if got := Unescape(Escape(in, q), q); got != in {
				t.Errorf("Unescape(Escape(%q, %s)) = %q", in, q, got)
			}
		}
	}
}

func TestFormatList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values any
		quote  Quote
		want   string
	}{
		{"strings", []string{"a", "b"}, DoubleQuote, `"a" "b"`},
		{"string list", manifest.StringList{"GPL", "MIT"}, DoubleQuote, `"GPL" "MIT"`},
		{"any", []any{"a", 2, true}, DoubleQuote, `"a" "2" "true"`},
		{"escaped", []string{`x"y`}, DoubleQuote, `"x\"y"`},
		{"single", []string{"it's"}, SingleQuote, `'it'"'"'s'`},
		{"empty", []string{}, DoubleQuote, ""},
		{"nil", nil, DoubleQuote, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatList(tt.values, tt.quote); got != tt.want {
				t.Errorf("FormatList() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatListScalarIsSingleElementList(t *testing.T) {
	t.Parallel()

	for _, q := range []Quote{DoubleQuote, SingleQuote} {
		for _, v := range []string{"GPL", `a"b`, "it's", ""} {
			if got, want := FormatList(v, q), FormatList([]string{v}, q); got != want {
				t.Errorf("FormatList(%q, %s) = %q, want %q", v, q, got, want)
			}
		}
	}
}
