// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive prompts strictly shows before it
// touches a repository, built on charmbracelet/huh.
package tui
