// SPDX-License-Identifier: MPL-2.0

// Package config handles strictly settings using Viper with CUE as the file format.
//
// Settings are read from the first file found of: the --config flag, strictly.cue in
// the project directory, and config.cue in the user config directory
// (~/.config/strictly on Linux, ~/Library/Application Support/strictly on macOS,
// %APPDATA%\strictly on Windows). Environment variables prefixed with STRICTLY_
// override file values, e.g. STRICTLY_GIT_CHECK=false or STRICTLY_UI_VERBOSE=true.
//
// Files are validated against the embedded CUE schema (config_schema.cue); target
// names are then checked against the strict registry.
package config
