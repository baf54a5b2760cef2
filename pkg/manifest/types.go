// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/exp/slices"
)

const (
	// KeyDeb selects the Debian package name of a dependency.
	KeyDeb PackageManagerKey = "deb"
	// KeyPkgbuild selects the Arch package name of a dependency.
	KeyPkgbuild PackageManagerKey = "pkgbuild"
	// KeyRpm selects the RPM package name of a dependency.
	KeyRpm PackageManagerKey = "rpm"
)

// Hook names accepted in the scripts list.
const (
	HookPreBuild    HookName = "pre_build"
	HookBuild       HookName = "build"
	HookPostBuild   HookName = "post_build"
	HookPreInstall  HookName = "pre_install"
	HookPostInstall HookName = "post_install"
	HookPreUpgrade  HookName = "pre_upgrade"
	HookPostUpgrade HookName = "post_upgrade"
	HookPreRemove   HookName = "pre_remove"
	HookPostRemove  HookName = "post_remove"
)

const (
	// RoleProvides declares a virtual package satisfied by this package.
	RoleProvides RelationshipRole = "provides"
	// RoleConflicts declares a package that cannot be installed alongside.
	RoleConflicts RelationshipRole = "conflicts"
)

// nameCharset is the full set of characters allowed, after lower-casing, in a package name.
const nameCharset = "abcdefghijklmnopqrstuvwxyz0123456789-_"

var (
	// ErrInvalidPackageName is returned when a package name contains characters
	// outside a-z, 0-9, '-' and '_' (case-insensitively), or is empty.
	ErrInvalidPackageName = errors.New("invalid package name")

	// ErrInvalidPackageManagerKey is returned for dependency keys outside deb, pkgbuild and rpm.
	ErrInvalidPackageManagerKey = errors.New("invalid package manager key")

	// ErrInvalidHookName is returned for script hooks outside the supported set.
	ErrInvalidHookName = errors.New("invalid hook name")

	// ErrInvalidFileMode is returned when chmod is not 3 or 4 octal digits.
	ErrInvalidFileMode = errors.New("invalid file mode")

	// ErrInvalidOwner is returned when chown is not "user" or "user:group".
	ErrInvalidOwner = errors.New("invalid owner")

	fileModePattern = regexp.MustCompile(`^[0-7]{3,4}$`)
	ownerPattern    = regexp.MustCompile(`^[A-Za-z0-9_.][A-Za-z0-9_.-]*(:[A-Za-z0-9_.][A-Za-z0-9_.-]*)?$`)
)

type (
	// PackageName is the name of the package being described. It must be
	// non-empty and consist of letters, digits, '-' and '_'. Upper-case
	// letters are accepted and kept as written.
	PackageName string

	// InvalidPackageNameError is returned when a PackageName fails IsNameValid.
	InvalidPackageNameError struct {
		Value PackageName
	}

	// PackageManagerKey names the package manager a dependency name applies to.
	PackageManagerKey string

	// InvalidPackageManagerKeyError is returned for an unknown PackageManagerKey.
	InvalidPackageManagerKeyError struct {
		Value PackageManagerKey
	}

	// HookName identifies the moment a script runs: a build phase
	// (pre_build, build, post_build) or a package lifecycle event.
	HookName string

	// InvalidHookNameError is returned for an unknown HookName.
	InvalidHookNameError struct {
		Value HookName
	}

	// RelationshipRole is either provides or conflicts.
	RelationshipRole string

	// FileMode is an octal permission string such as "755" or "0644".
	FileMode string

	// InvalidFileModeError is returned when a FileMode is not 3 or 4 octal digits.
	InvalidFileModeError struct {
		Value FileMode
	}

	// Owner is a chown specification: "user" or "user:group".
	Owner string

	// InvalidOwnerError is returned when an Owner is malformed.
	InvalidOwnerError struct {
		Value Owner
	}
)

// IsNameValid reports whether name, lower-cased, consists only of a-z, 0-9,
// '-' and '_'. The empty name is invalid.
func IsNameValid(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range strings.ToLower(name) {
		if !strings.ContainsRune(nameCharset, r) {
			return false
		}
	}
	return true
}

// String returns the string representation of the PackageName.
func (n PackageName) String() string { return string(n) }

// Validate returns an *InvalidPackageNameError when the name fails IsNameValid.
func (n PackageName) Validate() error {
	if !IsNameValid(string(n)) {
		return &InvalidPackageNameError{Value: n}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidPackageNameError) Error() string {
	if e.Value == "" {
		return "invalid package name: must not be empty"
	}
	return fmt.Sprintf("invalid package name %q: only letters, digits, '-' and '_' are allowed", string(e.Value))
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }

// PackageManagerKeys returns the supported dependency keys in fallback order.
func PackageManagerKeys() []PackageManagerKey {
	return []PackageManagerKey{KeyDeb, KeyPkgbuild, KeyRpm}
}

// String returns the string representation of the PackageManagerKey.
func (k PackageManagerKey) String() string { return string(k) }

// Validate returns an error unless the key is deb, pkgbuild or rpm.
func (k PackageManagerKey) Validate() error {
	switch k {
	case KeyDeb, KeyPkgbuild, KeyRpm:
		return nil
	default:
		return &InvalidPackageManagerKeyError{Value: k}
	}
}

// Error implements the error interface.
func (e *InvalidPackageManagerKeyError) Error() string {
	return fmt.Sprintf("invalid package manager key %q (valid: deb, pkgbuild, rpm)", string(e.Value))
}

// Unwrap returns ErrInvalidPackageManagerKey for errors.Is() compatibility.
func (e *InvalidPackageManagerKeyError) Unwrap() error { return ErrInvalidPackageManagerKey }

// BuildHooks returns the build-phase hooks in execution order.
func BuildHooks() []HookName {
	return []HookName{HookPreBuild, HookBuild, HookPostBuild}
}

// LifecycleHooks returns the install, upgrade and remove hooks in the order
// they appear in generated hook files.
func LifecycleHooks() []HookName {
	return []HookName{
		HookPreInstall, HookPostInstall,
		HookPreUpgrade, HookPostUpgrade,
		HookPreRemove, HookPostRemove,
	}
}

// String returns the string representation of the HookName.
func (h HookName) String() string { return string(h) }

// IsLifecycle reports whether the hook runs at install, upgrade or remove time.
func (h HookName) IsLifecycle() bool {
	return slices.Contains(LifecycleHooks(), h)
}

// IsBuildPhase reports whether the hook runs while the package is built.
func (h HookName) IsBuildPhase() bool {
	return slices.Contains(BuildHooks(), h)
}

// Validate returns an error for hooks outside BuildHooks and LifecycleHooks.
func (h HookName) Validate() error {
	if h.IsBuildPhase() || h.IsLifecycle() {
		return nil
	}
	return &InvalidHookNameError{Value: h}
}

// Error implements the error interface.
func (e *InvalidHookNameError) Error() string {
	return fmt.Sprintf("invalid hook %q (valid: pre_build, build, post_build, pre_install, post_install, pre_upgrade, post_upgrade, pre_remove, post_remove)", string(e.Value))
}

// Unwrap returns ErrInvalidHookName for errors.Is() compatibility.
func (e *InvalidHookNameError) Unwrap() error { return ErrInvalidHookName }

// String returns the string representation of the RelationshipRole.
func (r RelationshipRole) String() string { return string(r) }

// String returns the string representation of the FileMode.
func (m FileMode) String() string { return string(m) }

// Validate returns an error unless the mode is 3 or 4 octal digits.
func (m FileMode) Validate() error {
	if !fileModePattern.MatchString(string(m)) {
		return &InvalidFileModeError{Value: m}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidFileModeError) Error() string {
	return fmt.Sprintf("invalid chmod %q: must be 3 or 4 octal digits", string(e.Value))
}

// Unwrap returns ErrInvalidFileMode for errors.Is() compatibility.
func (e *InvalidFileModeError) Unwrap() error { return ErrInvalidFileMode }

// String returns the string representation of the Owner.
func (o Owner) String() string { return string(o) }

// User returns the part before the colon.
func (o Owner) User() string {
	user, _, _ := strings.Cut(string(o), ":")
	return user
}

// Group returns the part after the colon, or "" when no group is given.
func (o Owner) Group() string {
	_, group, _ := strings.Cut(string(o), ":")
	return group
}

// Validate returns an error unless the owner is "user" or "user:group".
func (o Owner) Validate() error {
	if !ownerPattern.MatchString(string(o)) {
		return &InvalidOwnerError{Value: o}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidOwnerError) Error() string {
	return fmt.Sprintf("invalid chown %q: must be \"user\" or \"user:group\"", string(e.Value))
}

// Unwrap returns ErrInvalidOwner for errors.Is() compatibility.
func (e *InvalidOwnerError) Unwrap() error { return ErrInvalidOwner }
