// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the strictly command-line interface.
//
// The root command enables strict mode for every configured target in a
// project directory. Subcommands run a subset of targets (enable), describe
// the targets (list) and manage the settings file (config).
package cmd
