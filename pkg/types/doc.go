// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared by the lazypkg packages and
// the command line: process exit codes and filesystem paths.
package types
