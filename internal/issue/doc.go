// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Well-known failures link to a catalog Issue whose
// Markdown page is rendered with glamour when lazypkg runs in verbose mode.
package issue
