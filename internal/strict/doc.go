// SPDX-License-Identifier: MPL-2.0

// Package strict holds the targets that turn on strict settings for each supported
// tool, their registry and the runner that applies them to a project directory.
//
// Every target follows the same shape: find its config file, skip when the tool is
// not used, edit the document through an editor that records each effective change,
// and hand the new bytes to Env.Write. Writing is pluggable so that a dry run can
// print diffs with the same code path.
package strict
