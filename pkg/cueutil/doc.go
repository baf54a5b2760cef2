// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user documents against embedded CUE schemas.
//
// Both lazypkg configuration files and package manifests follow the same flow:
// compile the schema, compile (or extract, for YAML) the user document, unify
// it with the root definition and validate the result. Errors are reported
// with JSON-path prefixes so that a user can locate the offending field:
//
//	onionr.yml: movements[1].chmod: conflicting values 9 and ...
//
// Manifests are accepted as CUE or YAML; use WithFormat(FormatYAML) for the
// latter. Documents above DefaultMaxFileSize are rejected before compilation.
package cueutil
