// SPDX-License-Identifier: MPL-2.0

// Package fileio reads manifests and writes generated recipe files.
//
// Writes are atomic: content goes to a temporary file in the target directory
// which is then renamed over the destination, so an interrupted run never
// leaves a half-written PKGBUILD or spec file behind.
package fileio
