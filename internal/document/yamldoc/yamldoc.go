// SPDX-License-Identifier: MPL-2.0

// Package yamldoc edits YAML configuration files (tslint.yaml, .eslintrc.yml) through
// the yaml.v3 node tree, so comments attached to untouched nodes are written back.
package yamldoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/strictly-typed/strictly/pkg/confpath"
)

const indentWidth = 2

// Document is an editable YAML document.
type Document struct {
	root *yaml.Node
}

// Parse decodes b into a node tree. Empty input yields an empty mapping.
func Parse(b []byte) (*Document, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(b, &n); err != nil {
		return nil, err
	}
	if n.Kind == 0 || len(n.Content) == 0 {
		n = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{newMapping()}}
	}
	return &Document{root: &n}, nil
}

// Bytes serializes the document with two-space indentation.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indentWidth)
	if err := enc.Encode(d.root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Lookup returns the value at p decoded into JSON types, and whether it exists.
func (d *Document) Lookup(p confpath.Path) (any, bool) {
	n := find(d.body(), p)
	if n == nil {
		return nil, false
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, false
	}
	out, err := normalize(v)
	if err != nil {
		return v, true
	}
	return out, true
}

// Set writes v at p, creating intermediate mappings when they are missing.
func (d *Document) Set(p confpath.Path, v any) error {
	if err := p.Validate(); err != nil {
		return err
	}

	cur := d.body()
	for i, seg := range p {
		last := i == len(p)-1
		switch s := seg.(type) {
		case string:
			if cur.Kind != yaml.MappingNode {
				return replace(cur, nest(p[i:], v))
			}
			idx := keyIndex(cur, s)
			if idx < 0 {
				val, err := encode(nest(p[i+1:], v))
				if err != nil {
					return err
				}
				cur.Content = append(cur.Content, newKey(s), val)
				return nil
			}
			if last {
				return replace(cur.Content[idx+1], v)
			}
			cur = cur.Content[idx+1]
		case int:
			if cur.Kind != yaml.SequenceNode {
				return replace(cur, nest(p[i:], v))
			}
			switch {
			case s == confpath.Append || s == len(cur.Content):
				val, err := encode(nest(p[i+1:], v))
				if err != nil {
					return err
				}
				cur.Content = append(cur.Content, val)
				return nil
			case s < 0 || s > len(cur.Content):
				return fmt.Errorf("set %s: index %d of %d: %w", p, s, len(cur.Content), confpath.ErrIndexOutOfRange)
			case last:
				return replace(cur.Content[s], v)
			default:
				cur = cur.Content[s]
			}
		}
	}
	return replace(cur, v)
}

// Delete removes the pair or element at p. A missing path is not an error.
func (d *Document) Delete(p confpath.Path) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.IsRoot() {
		*d.body() = *newMapping()
		return nil
	}
	parent := find(d.body(), p.Parent())
	if parent == nil {
		return nil
	}
	switch s := p.Last().(type) {
	case string:
		if parent.Kind != yaml.MappingNode {
			return nil
		}
		if idx := keyIndex(parent, s); idx >= 0 {
			parent.Content = append(parent.Content[:idx], parent.Content[idx+2:]...)
		}
	case int:
		if parent.Kind != yaml.SequenceNode || s < 0 || s >= len(parent.Content) {
			return nil
		}
		parent.Content = append(parent.Content[:s], parent.Content[s+1:]...)
	}
	return nil
}

// AppendUnique appends v to the sequence at p unless an equal element is present.
// A missing sequence is created holding just v.
func (d *Document) AppendUnique(p confpath.Path, v any) error {
	n := find(d.body(), p)
	if n == nil || n.Tag == "!!null" {
		return d.Set(p, []any{v})
	}
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("append to %s: %w", p, confpath.ErrNotArray)
	}

	want, err := normalize(v)
	if err != nil {
		return err
	}
	for _, item := range n.Content {
		var got any
		if err := item.Decode(&got); err != nil {
			continue
		}
		if got, err = normalize(got); err == nil && reflect.DeepEqual(got, want) {
			return nil
		}
	}

	val, err := encode(v)
	if err != nil {
		return err
	}
	n.Content = append(n.Content, val)
	return nil
}

// body returns the top-level node of the document.
func (d *Document) body() *yaml.Node {
	if d.root.Kind == yaml.DocumentNode {
		return d.root.Content[0]
	}
	return d.root
}

func find(n *yaml.Node, p confpath.Path) *yaml.Node {
	cur := n
	for _, seg := range p {
		switch s := seg.(type) {
		case string:
			if cur.Kind != yaml.MappingNode {
				return nil
			}
			idx := keyIndex(cur, s)
			if idx < 0 {
				return nil
			}
			cur = cur.Content[idx+1]
		case int:
			if cur.Kind != yaml.SequenceNode || s < 0 || s >= len(cur.Content) {
				return nil
			}
			cur = cur.Content[s]
		default:
			return nil
		}
	}
	return cur
}

// keyIndex returns the index of the key node for key in a mapping, or -1.
func keyIndex(m *yaml.Node, key string) int {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// replace overwrites dst with the encoding of v and keeps dst's comments.
func replace(dst *yaml.Node, v any) error {
	n, err := encode(v)
	if err != nil {
		return err
	}
	n.HeadComment = dst.HeadComment
	n.LineComment = dst.LineComment
	n.FootComment = dst.FootComment
	*dst = *n
	return nil
}

func encode(v any) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return &n, nil
}

func newKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

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

// normalize converts YAML-decoded values to the types encoding/json produces,
// so documents of either format compare the same way.
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
