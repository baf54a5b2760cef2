// SPDX-License-Identifier: MPL-2.0

// Package prepare turns a manifest file into recipe files on disk.
//
// The Service reads and parses the manifest, generates the recipe for one
// mode, asks before replacing existing files and writes the result. Reading,
// writing, confirming and building are injected so the CLI, tests and other
// front ends can supply their own implementations.
package prepare
