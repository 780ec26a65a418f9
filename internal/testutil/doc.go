// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixtures for tests that work on project directories:
// file trees, git repositories and an isolated home directory. Every helper fails
// the test immediately instead of returning an error.
package testutil
