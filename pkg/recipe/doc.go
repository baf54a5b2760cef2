// SPDX-License-Identifier: MPL-2.0

// Package recipe renders a manifest.Manifest into the build recipe of a
// packaging format: a PKGBUILD for Arch Linux, a debian/ directory for
// dpkg-buildpackage, or an RPM .spec file.
//
// Generation is pure: it reads the manifest and returns text. Writing files
// and running the native build tool are left to the caller.
package recipe
