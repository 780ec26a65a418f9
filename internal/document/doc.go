// SPDX-License-Identifier: MPL-2.0

// Package document locates, loads and saves project configuration files.
//
// A Document is edited through point-wise operations (Set, Delete, AppendUnique) addressed
// by a confpath.Path. The JSON editor (package jsonc) rewrites only the byte ranges an edit
// touches, so comments, trailing commas and indentation survive. The YAML editor (package
// yamldoc) works on the yaml.v3 node tree and keeps comments of untouched nodes.
package document
