// SPDX-License-Identifier: MPL-2.0

package strict

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/strictly-typed/strictly/internal/document"
	"github.com/strictly-typed/strictly/pkg/confpath"
)

// editor applies edits under a path prefix and records the ones that changed something.
// The first failing edit is kept and later edits become no-ops.
type editor struct {
	file    *document.File
	prefix  confpath.Path
	changes []Change
	err     error
}

func newEditor(f *document.File, prefix ...any) *editor {
	return &editor{file: f, prefix: confpath.New(prefix...)}
}

func (e *editor) path(p confpath.Path) confpath.Path {
	return confpath.Join(e.prefix, p...)
}

func (e *editor) lookup(p confpath.Path) (any, bool) {
	return e.file.Doc.Lookup(e.path(p))
}

// set writes v at p unless an equal value is already there.
func (e *editor) set(p confpath.Path, v any) {
	if e.err != nil {
		return
	}
	full := e.path(p)
	if cur, ok := e.file.Doc.Lookup(full); ok && sameValue(cur, v) {
		return
	}
	if err := e.file.Doc.Set(full, v); err != nil {
		e.err = err
		return
	}
	e.changes = append(e.changes, Change{Path: full, Op: OpSet, Value: v})
}

// setDefault writes v at p only when nothing is set there yet.
func (e *editor) setDefault(p confpath.Path, v any) {
	if _, ok := e.lookup(p); ok {
		return
	}
	e.set(p, v)
}

func (e *editor) delete(p confpath.Path) {
	if e.err != nil {
		return
	}
	full := e.path(p)
	if _, ok := e.file.Doc.Lookup(full); !ok {
		return
	}
	if err := e.file.Doc.Delete(full); err != nil {
		e.err = err
		return
	}
	e.changes = append(e.changes, Change{Path: full, Op: OpDelete})
}

func (e *editor) appendUnique(p confpath.Path, v any) {
	if e.err != nil {
		return
	}
	full := e.path(p)
	if cur, ok := e.file.Doc.Lookup(full); ok {
		if items, isArray := cur.([]any); isArray {
			for _, item := range items {
				if sameValue(item, v) {
					return
				}
			}
		}
	}
	if err := e.file.Doc.AppendUnique(full, v); err != nil {
		e.err = err
		return
	}
	e.changes = append(e.changes, Change{Path: full, Op: OpAppend, Value: v})
}

// commit writes the edited file through env.Write and builds the outcome.
func (env *Env) commit(t Target, e *editor, out Outcome) (Outcome, error) {
	out.Target = t.Name()
	out.File = e.file.Name
	out.Changes = append(out.Changes, e.changes...)
	if e.err != nil {
		out.Status = StatusFailed
		return out, fmt.Errorf("edit %s: %w", e.file.Name, e.err)
	}

	after, err := e.file.Doc.Bytes()
	if err != nil {
		out.Status = StatusFailed
		return out, fmt.Errorf("serialize %s: %w", e.file.Name, err)
	}
	if len(out.Changes) == 0 && bytes.Equal(after, e.file.Original) {
		out.Status = StatusUnchanged
		env.Log.Info(t.Title()+" is already strict", "file", e.file.Name)
		return out, nil
	}

	return env.write(t, out, e.file.Name, e.file.Original, after)
}

// write persists raw content and marks the outcome applied.
func (env *Env) write(t Target, out Outcome, name string, before, after []byte) (Outcome, error) {
	out.Target = t.Name()
	out.File = name
	if err := env.Write(name, before, after); err != nil {
		out.Status = StatusFailed
		return out, fmt.Errorf("write %s: %w", name, err)
	}
	out.Status = StatusApplied
	env.Log.Info("enabled strict mode for "+t.Title(), "file", name, "changes", len(out.Changes))
	return out, nil
}

// load finds the first existing candidate and parses it. A missing file is reported
// as document.ErrNotFound.
func (env *Env) load(candidates ...string) (*document.File, error) {
	name, err := document.Find(env.Dir, candidates...)
	if err != nil {
		return nil, err
	}
	return document.Load(env.Dir, name)
}

// sameValue compares a decoded document value with a Go value using JSON semantics.
func sameValue(decoded, v any) bool {
	norm, err := normalize(v)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(decoded, norm)
}

func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func formatValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
