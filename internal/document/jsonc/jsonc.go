// SPDX-License-Identifier: MPL-2.0

// Package jsonc edits JSON documents that may contain comments and trailing commas
// (tsconfig.json, biome.jsonc, deno.jsonc, .eslintrc.json) without reformatting them.
//
// The document is parsed with hujson to locate byte offsets. Every edit replaces byte
// ranges of the original text; the text is re-parsed before the next edit. Bytes outside
// the replaced ranges are never touched, so comments, key order and the user's
// indentation survive. Comments written after a member on its line stay with it.
package jsonc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/strictly-typed/strictly/pkg/confpath"
)

const defaultIndentUnit = "  "

type (
	// Document is an editable JSONC document.
	Document struct {
		raw  []byte
		unit string
	}

	// edit replaces raw[start:end] with text.
	edit struct {
		start int
		end   int
		text  string
	}

	// tail is what follows a member or element up to the end of its line: the
	// separating comma and the comments written after it.
	tail struct {
		// comma is the offset of the separating comma, or -1 for the last item.
		comma int
		// end is the offset after the comma and the same-line comments.
		end int
	}
)

// Parse validates b and returns an editable document.
// Blank input is treated as an empty object.
func Parse(b []byte) (*Document, error) {
	raw := bytes.Clone(b)
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}\n")
	}
	if _, err := hujson.Parse(raw); err != nil {
		return nil, err
	}
	return &Document{raw: raw, unit: detectIndentUnit(raw)}, nil
}

// Bytes returns the current text of the document.
func (d *Document) Bytes() ([]byte, error) {
	return bytes.Clone(d.raw), nil
}

// IndentUnit returns the indentation detected in the source (a tab or N spaces).
func (d *Document) IndentUnit() string {
	return d.unit
}

// Decode returns the whole document decoded into JSON types.
func (d *Document) Decode() (any, error) {
	std, err := hujson.Standardize(bytes.Clone(d.raw))
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(std, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Lookup returns the decoded value at p and whether it exists.
func (d *Document) Lookup(p confpath.Path) (any, bool) {
	root, err := d.Decode()
	if err != nil {
		return nil, false
	}
	return walk(root, p)
}

// Set writes v at p, creating intermediate objects when they are missing.
// Intermediate nodes that exist with a non-container type are replaced.
func (d *Document) Set(p confpath.Path, v any) error {
	if err := p.Validate(); err != nil {
		return err
	}
	root, err := hujson.Parse(d.raw)
	if err != nil {
		return err
	}
	edits, err := d.planSet(&root, p, v)
	if err != nil {
		return fmt.Errorf("set %s: %w", p, err)
	}
	return d.apply(edits...)
}

// Delete removes the member or element at p. A missing path is not an error.
func (d *Document) Delete(p confpath.Path) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.IsRoot() {
		return d.apply(edit{start: 0, end: len(d.raw), text: "{}\n"})
	}
	root, err := hujson.Parse(d.raw)
	if err != nil {
		return err
	}
	parent := resolve(&root, p.Parent())
	if parent == nil {
		return nil
	}

	var edits []edit
	switch seg := p.Last().(type) {
	case string:
		obj, ok := parent.Value.(*hujson.Object)
		if !ok {
			return nil
		}
		idx := memberIndex(obj, seg)
		if idx < 0 {
			return nil
		}
		if len(obj.Members) == 1 {
			edits = []edit{{start: parent.StartOffset, end: parent.EndOffset, text: "{}"}}
			break
		}
		starts, ends := memberSpans(obj)
		edits = d.planDeleteItem(parent, starts, ends, idx)
	case int:
		arr, ok := parent.Value.(*hujson.Array)
		if !ok || seg < 0 || seg >= len(arr.Elements) {
			return nil
		}
		if len(arr.Elements) == 1 {
			edits = []edit{{start: parent.StartOffset, end: parent.EndOffset, text: "[]"}}
			break
		}
		starts, ends := elementSpans(arr)
		edits = d.planDeleteItem(parent, starts, ends, seg)
	}
	if len(edits) == 0 {
		return nil
	}
	return d.apply(edits...)
}

// AppendUnique appends v to the array at p unless an equal element is already present.
// A missing array is created holding just v.
func (d *Document) AppendUnique(p confpath.Path, v any) error {
	current, ok := d.Lookup(p)
	if !ok || current == nil {
		return d.Set(p, []any{v})
	}
	items, isArray := current.([]any)
	if !isArray {
		return fmt.Errorf("append to %s: %w", p, confpath.ErrNotArray)
	}
	want, err := normalize(v)
	if err != nil {
		return err
	}
	for _, item := range items {
		if reflect.DeepEqual(item, want) {
			return nil
		}
	}
	return d.Set(confpath.Join(p, confpath.Append), v)
}

// apply performs edits in order. Callers list them from the end of the text backwards
// so that earlier offsets stay valid.
func (d *Document) apply(edits ...edit) error {
	next := d.raw
	for _, e := range edits {
		var buf bytes.Buffer
		buf.Grow(len(next) - (e.end - e.start) + len(e.text))
		buf.Write(next[:e.start])
		buf.WriteString(e.text)
		buf.Write(next[e.end:])
		next = buf.Bytes()
	}

	if _, err := hujson.Parse(next); err != nil {
		return fmt.Errorf("edit produced invalid JSON: %w", err)
	}
	d.raw = next
	return nil
}

func (d *Document) planSet(root *hujson.Value, p confpath.Path, v any) ([]edit, error) {
	cur := root
	for i, seg := range p {
		last := i == len(p)-1
		switch s := seg.(type) {
		case string:
			obj, ok := cur.Value.(*hujson.Object)
			if !ok {
				return d.planReplace(cur, nest(p[i:], v))
			}
			idx := memberIndex(obj, s)
			if idx < 0 {
				return d.planInsertMember(cur, obj, s, nest(p[i+1:], v))
			}
			if last {
				return d.planReplace(&obj.Members[idx].Value, v)
			}
			cur = &obj.Members[idx].Value
		case int:
			arr, ok := cur.Value.(*hujson.Array)
			if !ok {
				return d.planReplace(cur, nest(p[i:], v))
			}
			switch {
			case s == confpath.Append || s == len(arr.Elements):
				return d.planAppendElement(cur, arr, nest(p[i+1:], v))
			case s < 0 || s > len(arr.Elements):
				return nil, fmt.Errorf("index %d of %d: %w", s, len(arr.Elements), confpath.ErrIndexOutOfRange)
			case last:
				return d.planReplace(&arr.Elements[s], v)
			default:
				cur = &arr.Elements[s]
			}
		}
	}
	return d.planReplace(cur, v)
}

func (d *Document) planReplace(target *hujson.Value, v any) ([]edit, error) {
	text, err := d.render(v, lineIndent(d.raw, target.StartOffset))
	if err != nil {
		return nil, err
	}
	return []edit{{start: target.StartOffset, end: target.EndOffset, text: text}}, nil
}

func (d *Document) planInsertMember(objVal *hujson.Value, obj *hujson.Object, key string, v any) ([]edit, error) {
	name, err := marshal(key)
	if err != nil {
		return nil, err
	}

	if len(obj.Members) == 0 {
		outer := lineIndent(d.raw, objVal.StartOffset)
		inner := outer + d.unit
		value, err := d.render(v, inner)
		if err != nil {
			return nil, err
		}
		text := "{\n" + inner + name + ": " + value + "\n" + outer + "}"
		return []edit{{start: objVal.StartOffset, end: objVal.EndOffset, text: text}}, nil
	}

	last := obj.Members[len(obj.Members)-1]
	if !bytes.ContainsRune(d.raw[objVal.StartOffset:last.Name.StartOffset], '\n') {
		value, err := d.render(v, lineIndent(d.raw, objVal.StartOffset))
		if err != nil {
			return nil, err
		}
		return d.planAppendItem(objVal, last.Value.EndOffset, " ", name+": "+value), nil
	}

	indent := lineIndent(d.raw, last.Name.StartOffset)
	value, err := d.render(v, indent)
	if err != nil {
		return nil, err
	}
	return d.planAppendItem(objVal, last.Value.EndOffset, "\n"+indent, name+": "+value), nil
}

func (d *Document) planAppendElement(arrVal *hujson.Value, arr *hujson.Array, v any) ([]edit, error) {
	if len(arr.Elements) == 0 {
		value, err := d.render(v, lineIndent(d.raw, arrVal.StartOffset))
		if err != nil {
			return nil, err
		}
		return []edit{{start: arrVal.StartOffset, end: arrVal.EndOffset, text: "[" + value + "]"}}, nil
	}

	last := arr.Elements[len(arr.Elements)-1]
	if bytes.ContainsRune(d.raw[arrVal.StartOffset:last.StartOffset], '\n') {
		indent := lineIndent(d.raw, last.StartOffset)
		value, err := d.render(v, indent)
		if err != nil {
			return nil, err
		}
		return d.planAppendItem(arrVal, last.EndOffset, "\n"+indent, value), nil
	}

	value, err := d.render(v, lineIndent(d.raw, arrVal.StartOffset))
	if err != nil {
		return nil, err
	}
	return d.planAppendItem(arrVal, last.EndOffset, " ", value), nil
}

// planAppendItem adds text after the last item of a non-empty container, whose value
// ends at lastEnd. The text goes after the comments on the last item's line, so they
// stay with that item. A trailing comma style is kept.
func (d *Document) planAppendItem(container *hujson.Value, lastEnd int, sep, text string) []edit {
	t := d.tailOf(lastEnd, container.EndOffset-1)
	if t.comma >= 0 {
		return []edit{{start: t.end, end: t.end, text: sep + text + ","}}
	}
	return []edit{
		{start: t.end, end: t.end, text: sep + text},
		{start: lastEnd, end: lastEnd, text: ","},
	}
}

// planDeleteItem removes item idx of a container holding at least two items. starts
// and ends are the item spans. The removed range runs from the end of the previous
// item's line comments to the end of the item's own, so every comment stays on the
// item it was written for.
func (d *Document) planDeleteItem(container *hujson.Value, starts, ends []int, idx int) []edit {
	limit := container.EndOffset - 1
	cur := d.tailOf(ends[idx], limit)

	if idx == 0 {
		open := d.lineComments(container.StartOffset+1, limit)
		if bytes.ContainsRune(d.raw[open:starts[0]], '\n') {
			return []edit{{start: open, end: cur.end}}
		}
		end := cur.end
		for end < limit && (d.raw[end] == ' ' || d.raw[end] == '\t') {
			end++
		}
		return []edit{{start: starts[0], end: end}}
	}

	prev := d.tailOf(ends[idx-1], limit)
	edits := []edit{{start: prev.end, end: cur.end}}
	if cur.comma < 0 {
		// the previous item becomes the last one
		edits = append(edits, edit{start: prev.comma, end: prev.comma + 1})
	}
	return edits
}

// tailOf scans what follows an item value ending at from, never beyond limit.
func (d *Document) tailOf(from, limit int) tail {
	i := skipTrivia(d.raw, from, limit)
	if i < limit && d.raw[i] == ',' {
		return tail{comma: i, end: d.lineComments(i+1, limit)}
	}
	return tail{comma: -1, end: d.lineComments(from, limit)}
}

// lineComments returns the offset after the comments that start on the same line at
// or after from, or from itself when there are none.
func (d *Document) lineComments(from, limit int) int {
	end := from
	i := from
	for {
		for i < limit && (d.raw[i] == ' ' || d.raw[i] == '\t') {
			i++
		}
		switch {
		case i+1 < limit && d.raw[i] == '/' && d.raw[i+1] == '/':
			for i < limit && d.raw[i] != '\n' {
				i++
			}
			return i
		case i+1 < limit && d.raw[i] == '/' && d.raw[i+1] == '*':
			n := bytes.Index(d.raw[i+2:limit], []byte("*/"))
			if n < 0 {
				return end
			}
			i += n + 4
			end = i
		default:
			return end
		}
	}
}

func memberSpans(obj *hujson.Object) (starts, ends []int) {
	for _, m := range obj.Members {
		starts = append(starts, m.Name.StartOffset)
		ends = append(ends, m.Value.EndOffset)
	}
	return starts, ends
}

func elementSpans(arr *hujson.Array) (starts, ends []int) {
	for _, e := range arr.Elements {
		starts = append(starts, e.StartOffset)
		ends = append(ends, e.EndOffset)
	}
	return starts, ends
}

// render encodes v as indented JSON whose continuation lines start with indent.
func (d *Document) render(v any, indent string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(indent, d.unit)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// resolve follows p through the AST and returns the addressed value, or nil.
func resolve(root *hujson.Value, p confpath.Path) *hujson.Value {
	cur := root
	for _, seg := range p {
		switch s := seg.(type) {
		case string:
			obj, ok := cur.Value.(*hujson.Object)
			if !ok {
				return nil
			}
			idx := memberIndex(obj, s)
			if idx < 0 {
				return nil
			}
			cur = &obj.Members[idx].Value
		case int:
			arr, ok := cur.Value.(*hujson.Array)
			if !ok || s < 0 || s >= len(arr.Elements) {
				return nil
			}
			cur = &arr.Elements[s]
		default:
			return nil
		}
	}
	return cur
}

// memberIndex returns the index of the last member named key (JSON semantics: last wins), or -1.
func memberIndex(obj *hujson.Object, key string) int {
	found := -1
	for i, m := range obj.Members {
		lit, ok := m.Name.Value.(hujson.Literal)
		if !ok {
			continue
		}
		var name string
		if err := json.Unmarshal(lit, &name); err != nil {
			continue
		}
		if name == key {
			found = i
		}
	}
	return found
}

// walk follows p through decoded JSON values.
func walk(v any, p confpath.Path) (any, bool) {
	cur := v
	for _, seg := range p {
		switch s := seg.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			next, ok := m[s]
			if !ok {
				return nil, false
			}
			cur = next
		case int:
			arr, ok := cur.([]any)
			if !ok || s < 0 || s >= len(arr) {
				return nil, false
			}
			cur = arr[s]
		default:
			return nil, false
		}
	}
	return cur, true
}

// nest wraps v in the containers described by rest, innermost last.
func nest(rest confpath.Path, v any) any {
	out := v
	for i := len(rest) - 1; i >= 0; i-- {
		switch s := rest[i].(type) {
		case string:
			out = map[string]any{s: out}
		case int:
			out = []any{out}
		}
	}
	return out
}

// normalize round-trips v through encoding/json so it compares equal to decoded values.
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

func marshal(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// lineIndent returns the leading whitespace of the line containing offset.
func lineIndent(raw []byte, offset int) string {
	start := bytes.LastIndexByte(raw[:offset], '\n') + 1
	end := start
	for end < len(raw) && (raw[end] == ' ' || raw[end] == '\t') {
		end++
	}
	return string(raw[start:end])
}

// detectIndentUnit returns the indentation of the first indented line, or two spaces.
func detectIndentUnit(raw []byte) string {
	for _, line := range bytes.Split(raw, []byte("\n")) {
		trimmed := bytes.TrimLeft(line, " \t")
		if len(trimmed) == 0 || len(trimmed) == len(line) {
			continue
		}
		if line[0] == '\t' {
			return "\t"
		}
		return string(line[:len(line)-len(bytes.TrimLeft(line, " "))])
	}
	return defaultIndentUnit
}

// skipTrivia advances past whitespace and comments starting at i, never beyond limit.
func skipTrivia(raw []byte, i, limit int) int {
	for i < limit {
		switch {
		case isSpace(raw[i]):
			i++
		case raw[i] == '/' && i+1 < limit && raw[i+1] == '/':
			for i < limit && raw[i] != '\n' {
				i++
			}
		case raw[i] == '/' && i+1 < limit && raw[i+1] == '*':
			end := bytes.Index(raw[i+2:limit], []byte("*/"))
			if end < 0 {
				return limit
			}
			i += end + 4
		default:
			return i
		}
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
