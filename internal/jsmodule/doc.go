// SPDX-License-Identifier: MPL-2.0

// Package jsmodule edits JavaScript ESLint configuration modules without running them.
//
// Files are parsed with tree-sitter's JavaScript grammar. ParseFlatConfig understands the
// common flat config layouts: an exported array of config objects, or a config helper call
// such as tseslint.config(...) or defineConfig([...]). Rules are written as byte-range
// replacements so the rest of the file is left as the user wrote it.
package jsmodule
