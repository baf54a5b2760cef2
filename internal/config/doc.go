// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/lazypkg/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/lazypkg/config.cue on macOS, %APPDATA%\lazypkg\config.cue
// on Windows), falling back to ./config.cue. LAZYPKG_* environment variables override file
// values. The configuration selects the default mode, the overwrite policy, how scripts are
// invoked from recipes and which native build command each mode runs.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
