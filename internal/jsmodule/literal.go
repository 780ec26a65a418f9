// SPDX-License-Identifier: MPL-2.0

package jsmodule

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ExportedObject evaluates the object literal exported by a legacy .eslintrc.js or
// .eslintrc.cjs file. Only literal values are supported: strings, numbers, booleans,
// null, arrays and objects. Anything computed yields ErrUnsupportedShape.
func ExportedObject(ctx context.Context, src []byte) (map[string]any, error) {
	tree, err := parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	expr := exportedExpression(tree.RootNode(), src, detectKind(src))
	if expr == nil {
		return nil, fmt.Errorf("%w: no exported config", ErrUnsupportedShape)
	}
	if expr.Type() != "object" {
		return nil, fmt.Errorf("%w: exported %s is not an object literal", ErrUnsupportedShape, expr.Type())
	}

	v, err := literal(expr, src)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// literal converts a literal expression into JSON decoding types.
func literal(n *sitter.Node, src []byte) (any, error) {
	switch n.Type() {
	case "string":
		return stringValue(n, src)
	case "template_string":
		for i := range int(n.NamedChildCount()) {
			if n.NamedChild(i).Type() == "template_substitution" {
				return nil, unsupported(n)
			}
		}
		text := n.Content(src)
		return text[1 : len(text)-1], nil
	case "number":
		return number(n.Content(src))
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	case "unary_expression":
		op := n.ChildByFieldName("operator")
		arg := n.ChildByFieldName("argument")
		if op == nil || arg == nil || arg.Type() != "number" {
			return nil, unsupported(n)
		}
		f, err := number(arg.Content(src))
		if err != nil {
			return nil, err
		}
		switch op.Content(src) {
		case "-":
			return -f, nil
		case "+":
			return f, nil
		}
		return nil, unsupported(n)
	case "parenthesized_expression":
		if n.NamedChildCount() != 1 {
			return nil, unsupported(n)
		}
		return literal(n.NamedChild(0), src)
	case "array":
		out := make([]any, 0, n.NamedChildCount())
		for _, el := range members(n) {
			v, err := literal(el, src)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case "object":
		out := make(map[string]any, n.NamedChildCount())
		for _, m := range members(n) {
			if m.Type() != "pair" {
				return nil, unsupported(m)
			}
			key, ok := keyName(m.ChildByFieldName("key"), src)
			if !ok {
				return nil, unsupported(m)
			}
			v, err := literal(m.ChildByFieldName("value"), src)
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil
	default:
		return nil, unsupported(n)
	}
}

func unsupported(n *sitter.Node) error {
	return fmt.Errorf("%w: %s at line %d", ErrUnsupportedShape, n.Type(), n.StartPoint().Row+1)
}

// stringValue decodes a string node, resolving escape sequences.
func stringValue(n *sitter.Node, src []byte) (string, error) {
	if n.NamedChildCount() == 0 {
		text := n.Content(src)
		if len(text) < 2 {
			return "", unsupported(n)
		}
		return text[1 : len(text)-1], nil
	}

	var sb strings.Builder
	for i := range int(n.NamedChildCount()) {
		ch := n.NamedChild(i)
		text := ch.Content(src)
		switch ch.Type() {
		case "string_fragment":
			sb.WriteString(text)
		case "escape_sequence":
			if text == `\'` {
				sb.WriteByte('\'')
				continue
			}
			s, err := strconv.Unquote(`"` + text + `"`)
			if err != nil {
				sb.WriteString(strings.TrimPrefix(text, `\`))
				continue
			}
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}

func number(text string) (float64, error) {
	text = strings.ReplaceAll(text, "_", "")
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, nil
	}
	i, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: number %q", ErrUnsupportedShape, text)
	}
	return float64(i), nil
}
