// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"strings"
	"testing"

	"github.com/lazypkg/lazypkg/pkg/manifest"
)

func TestGenerateMovementsEmpty(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{Name: "demo"}
	for _, mode := range append(Modes(), "apk") {
		if got := GenerateMovements(mode, m, DefaultIndent); got != "" {
			t.Errorf("GenerateMovements(%s) = %q, want empty", mode, got)
		}
	}
	if got := GenerateMovements("apk", manifest.Sample("onionr"), DefaultIndent); got != "" {
		t.Errorf("GenerateMovements(apk) = %q, want empty", got)
	}
}

func TestGenerateMovementsStaged(t *testing.T) {
	t.Parallel()

	got := GenerateMovements(ModePkgbuild, manifest.Sample("onionr"), 4)
	want := strings.Join([]string{
		"    # create destination directories",
		`    mkdir -p "$pkgdir/usr/bin/"`,
		`    mkdir -p "$pkgdir/etc/systemd/system/"`,
		`    mkdir -p "$pkgdir/usr/share/onionr"`,
		"",
		`    _lazypkg_install --mode=755 --owner=root --group=root "$pkgdir/usr/bin/" "install/onionr"`,
		`    _lazypkg_install --mode=644 --owner=root --group=root "$pkgdir/etc/systemd/system/" "install/onionr.service"`,
		`    _lazypkg_install --mode=755 --owner=root --group=root "$pkgdir/usr/share/onionr" *`,
	}, "\n")
	if got != want {
		t.Errorf("GenerateMovements(pkgbuild) =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerateMovementsDirect(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{
		Name: "demo",
		Movements: []manifest.Movement{
			{Source: "bin/demo", Destination: "/usr/bin/", Mode: "0755", Owner: "root"},
			{Source: "share/*.txt", Destination: "/usr/bin/"},
		},
	}

	tests := []struct {
		mode Mode
		want string
	}{
		{ModeDeb, strings.Join([]string{
			"# create destination directories",
			`mkdir -p "$DESTDIR/usr/bin/"`,
			"",
			`chmod -R 0755 "bin/demo"`,
			`chown -R root "bin/demo"`,
			`cp -rp "bin/demo" "$DESTDIR/usr/bin/"`,
			`cp -rp "share/"*".txt" "$DESTDIR/usr/bin/"`,
		}, "\n")},
		{ModeRpm, strings.Join([]string{
			"# create destination directories",
			`mkdir -p "%{buildroot}/usr/bin/"`,
			"",
			`chmod -R 0755 "bin/demo"`,
			`chown -R root "bin/demo"`,
			`cp -rp "bin/demo" "%{buildroot}/usr/bin/"`,
			`cp -rp "share/"*".txt" "%{buildroot}/usr/bin/"`,
		}, "\n")},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			t.Parallel()

			if got := GenerateMovements(tt.mode, m, 0); got != tt.want {
				t.Errorf("GenerateMovements() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestQuotePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"install/onionr", `"install/onionr"`},
		{"*", "*"},
		{"install/*.sh", `"install/"*".sh"`},
		{"file[12]", `"file"[12]`},
		{`we"ird`, `"we\"ird"`},
		{"", `""`},
	}

	for _, tt := range tests {
		if got := quotePath(tt.in); got != tt.want {
			t.Errorf("quotePath(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestIndentBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block string
		width int
		want  string
	}{
		{"empty", "", 4, ""},
		{"blank lines only", "\n  \n", 4, ""},
		{"trims and pads", "  a\nb  ", 2, "  a\n  b"},
		{"keeps inner blank line", "a\n\nb", 1, " a\n\n b"},
		{"negative width", "a", -3, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := indentBlock(tt.block, tt.width); got != tt.want {
				t.Errorf("indentBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}
