// SPDX-License-Identifier: MPL-2.0

// Package confpath provides the Path value type used to address a node inside a
// parsed configuration document (JSON, JSONC or YAML).
//
// A Path is a sequence of segments. String segments select object members and int
// segments select array elements. The special index Append (-1) addresses the
// position one past the last element of an array.
package confpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Append is the array index that addresses the slot after the last element.
const Append = -1

var (
	// ErrInvalidSegment is returned when a path segment is neither a string nor an int.
	ErrInvalidSegment = errors.New("invalid path segment")
	// ErrNotArray is returned when an array operation addresses a node that is not an array.
	ErrNotArray = errors.New("value is not an array")
	// ErrIndexOutOfRange is returned when an array index points past the end of the array.
	ErrIndexOutOfRange = errors.New("array index out of range")
)

type (
	// Path addresses a node in a configuration document.
	Path []any

	// InvalidSegmentError reports the offending segment and its position.
	// It wraps ErrInvalidSegment for errors.Is() compatibility.
	InvalidSegmentError struct {
		Index   int
		Segment any
	}
)

// Error implements the error interface.
func (e *InvalidSegmentError) Error() string {
	return fmt.Sprintf("path segment %d: %T is not a key or an index", e.Index, e.Segment)
}

// Unwrap returns ErrInvalidSegment.
func (e *InvalidSegmentError) Unwrap() error {
	return ErrInvalidSegment
}

// New builds a Path from the given segments.
func New(segments ...any) Path {
	return Path(segments)
}

// Join returns a new Path made of prefix followed by segments.
// The prefix is copied, so appending to the result never aliases it.
func Join(prefix Path, segments ...any) Path {
	out := make(Path, 0, len(prefix)+len(segments))
	out = append(out, prefix...)
	return append(out, segments...)
}

// Validate checks that every segment is a string or an int.
func (p Path) Validate() error {
	for i, seg := range p {
		switch seg.(type) {
		case string, int:
		default:
			return &InvalidSegmentError{Index: i, Segment: seg}
		}
	}
	return nil
}

// Parent returns the path without its last segment.
// The parent of the empty path is the empty path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return Join(p[:len(p)-1])
}

// Last returns the final segment, or nil for the empty path.
func (p Path) Last() any {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// IsRoot reports whether the path addresses the document root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// String renders the path for humans: compilerOptions.strict, overrides[0].rules,
// rules["@typescript-eslint/no-explicit-any"].
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}

	var sb strings.Builder
	for i, seg := range p {
		switch s := seg.(type) {
		case string:
			if isPlainKey(s) {
				if i > 0 {
					sb.WriteByte('.')
				}
				sb.WriteString(s)
			} else {
				sb.WriteByte('[')
				sb.WriteString(strconv.Quote(s))
				sb.WriteByte(']')
			}
		case int:
			if s == Append {
				sb.WriteString("[+]")
			} else {
				sb.WriteByte('[')
				sb.WriteString(strconv.Itoa(s))
				sb.WriteByte(']')
			}
		default:
			fmt.Fprintf(&sb, "[%v]", s)
		}
	}
	return sb.String()
}

// isPlainKey reports whether a key can be rendered without brackets.
func isPlainKey(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		case r == '-' && i > 0:
		default:
			return false
		}
	}
	return true
}
