// SPDX-License-Identifier: MPL-2.0

package document

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/strictly-typed/strictly/internal/document/jsonc"
	"github.com/strictly-typed/strictly/internal/document/yamldoc"
	"github.com/strictly-typed/strictly/pkg/confpath"
)

const defaultFileMode fs.FileMode = 0o644

var (
	// ErrNotFound is returned by Find when none of the candidate files exist.
	ErrNotFound = errors.New("config file not found")
	// ErrUnsupportedFormat is returned by Load for extensions no editor handles.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	_ Document = (*jsonc.Document)(nil)
	_ Document = (*yamldoc.Document)(nil)
)

type (
	// Document is an editable configuration document. Implementations keep the
	// formatting of everything they are not asked to change.
	Document interface {
		// Lookup returns the decoded value at p and whether it exists.
		Lookup(p confpath.Path) (any, bool)
		// Set writes v at p, creating missing intermediate objects.
		Set(p confpath.Path, v any) error
		// Delete removes the value at p. A missing path is not an error.
		Delete(p confpath.Path) error
		// AppendUnique appends v to the array at p unless an equal element exists.
		AppendUnique(p confpath.Path, v any) error
		// Bytes serializes the document.
		Bytes() ([]byte, error)
	}

	// Format identifies the editor used for a file.
	Format int

	// ParseError reports a config file that could not be parsed.
	ParseError struct {
		File string
		Err  error
	}

	// File is a loaded document together with where it came from.
	File struct {
		// Name is the file name relative to Dir.
		Name string
		// Dir is the project directory.
		Dir string
		// Format is the editor backing Doc.
		Format Format
		// Original holds the bytes read from disk, nil for new files.
		Original []byte
		// Doc is the editable document.
		Doc Document
	}
)

const (
	// FormatJSON covers .json and .jsonc files, comments allowed.
	FormatJSON Format = iota + 1
	// FormatYAML covers .yaml and .yml files.
	FormatYAML
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

// Unwrap returns the underlying parser error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf returns the format for a file name based on its extension.
// Names without a known extension (".eslintrc") are treated as JSON.
func FormatOf(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == filepath.Base(name) {
		// a dotfile such as ".eslintrc" has no extension
		ext = ""
	}
	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case "":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

// Find returns the first candidate name that exists as a regular file in dir.
func Find(dir string, names ...string) (string, error) {
	for _, name := range names {
		info, err := os.Stat(filepath.Join(dir, name))
		if err == nil && info.Mode().IsRegular() {
			return name, nil
		}
	}
	return "", fmt.Errorf("%s in %s: %w", strings.Join(names, ", "), dir, ErrNotFound)
}

// Exists reports whether name is a regular file in dir.
func Exists(dir, name string) bool {
	_, err := Find(dir, name)
	return err == nil
}

// Parse builds a document of the given format from raw bytes.
func Parse(format Format, b []byte) (Document, error) {
	switch format {
	case FormatJSON:
		return jsonc.Parse(b)
	case FormatYAML:
		return yamldoc.Parse(b)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Load reads and parses dir/name.
func Load(dir, name string) (*File, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}

	doc, err := Parse(format, raw)
	if err != nil {
		return nil, &ParseError{File: name, Err: err}
	}
	return &File{Name: name, Dir: dir, Format: format, Original: raw, Doc: doc}, nil
}

// New returns an empty document that will be written to dir/name.
func New(dir, name string) (*File, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(format, nil)
	if err != nil {
		return nil, err
	}
	return &File{Name: name, Dir: dir, Format: format, Doc: doc}, nil
}

// Path returns the absolute location of the file.
func (f *File) Path() string {
	return filepath.Join(f.Dir, f.Name)
}

// Changed reports whether the serialized document differs from what was read.
func (f *File) Changed() (bool, error) {
	b, err := f.Doc.Bytes()
	if err != nil {
		return false, err
	}
	return !bytes.Equal(b, f.Original), nil
}

// Save writes the document back, keeping the mode of an existing file.
func Save(f *File) error {
	b, err := f.Doc.Bytes()
	if err != nil {
		return err
	}
	return WriteFile(f.Path(), b)
}

// WriteFile writes b to path with the mode of the existing file, or 0o644.
func WriteFile(path string, b []byte) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, b, mode)
}

// Diff renders a unified diff between two versions of name.
// It returns an empty string when the contents are equal.
func Diff(name string, before, after []byte) (string, error) {
	if bytes.Equal(before, after) {
		return "", nil
	}
	from := "a/" + name
	if before == nil {
		from = "/dev/null"
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: from,
		ToFile:   "b/" + name,
		Context:  3,
	})
}

func splitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	return difflib.SplitLines(string(b))
}
