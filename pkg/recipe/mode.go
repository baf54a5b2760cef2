// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lazypkg/lazypkg/pkg/manifest"
)

const (
	// ModePkgbuild produces an Arch Linux PKGBUILD.
	ModePkgbuild Mode = "pkgbuild"
	// ModeDeb produces a debian/ directory for dpkg-buildpackage.
	ModeDeb Mode = "deb"
	// ModeRpm produces an RPM .spec file.
	ModeRpm Mode = "rpm"
)

const (
	// strategyDirect chmods, chowns and copies each source in place.
	strategyDirect movementStrategy = iota
	// strategyStaged installs each file through the _lazypkg_install helper.
	strategyStaged
)

// ErrUnsupportedMode is the sentinel error wrapped by UnsupportedModeError.
var ErrUnsupportedMode = errors.New("unsupported mode")

type (
	// Mode is a target packaging format.
	Mode string

	// UnsupportedModeError is returned by ParseMode and Mode.Validate for
	// modes outside Modes().
	UnsupportedModeError struct {
		Value Mode
	}

	movementStrategy int

	// rules holds everything that differs between modes. rulesFor is the
	// single place a Mode is mapped to its behavior.
	rules struct {
		mode        Mode
		key         manifest.PackageManagerKey
		gitSources  bool
		stagingRoot string
		movements   movementStrategy
		assemble    func(m *manifest.Manifest, opts Options) []File
	}
)

func rulesFor(mode Mode) (rules, bool) {
	switch mode {
	case ModePkgbuild:
		return rules{
			mode:        mode,
			key:         manifest.KeyPkgbuild,
			gitSources:  true,
			stagingRoot: "$pkgdir",
			movements:   strategyStaged,
			assemble:    assemblePkgbuild,
		}, true
	case ModeDeb:
		return rules{
			mode:        mode,
			key:         manifest.KeyDeb,
			stagingRoot: "$DESTDIR",
			movements:   strategyDirect,
			assemble:    assembleDeb,
		}, true
	case ModeRpm:
		return rules{
			mode:        mode,
			key:         manifest.KeyRpm,
			stagingRoot: "%{buildroot}",
			movements:   strategyDirect,
			assemble:    assembleRpm,
		}, true
	default:
		return rules{}, false
	}
}

// Modes returns every supported mode.
func Modes() []Mode {
	return []Mode{ModePkgbuild, ModeDeb, ModeRpm}
}

// ParseMode normalizes s (trimmed, lower-cased) and validates it.
// The normalized mode is returned even when it is unsupported.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Validate()
}

// String returns the string representation of the Mode.
func (m Mode) String() string { return string(m) }

// IsSupported reports whether recipes can be generated for m.
func (m Mode) IsSupported() bool {
	_, ok := rulesFor(m)
	return ok
}

// Validate returns an *UnsupportedModeError for unknown modes.
func (m Mode) Validate() error {
	if !m.IsSupported() {
		return &UnsupportedModeError{Value: m}
	}
	return nil
}

// Key returns the dependency key consulted first for this mode.
func (m Mode) Key() manifest.PackageManagerKey {
	if r, ok := rulesFor(m); ok {
		return r.key
	}
	return manifest.PackageManagerKey(m)
}

// Error implements the error interface.
func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("unsupported mode %q (supported: pkgbuild, deb, rpm)", string(e.Value))
}

// Unwrap returns ErrUnsupportedMode for errors.Is() compatibility.
func (e *UnsupportedModeError) Unwrap() error { return ErrUnsupportedMode }
