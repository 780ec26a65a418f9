// SPDX-License-Identifier: MPL-2.0

package jsmodule

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

const (
	// ModuleESM marks a file exporting its config with `export default`.
	ModuleESM ModuleKind = iota + 1
	// ModuleCommonJS marks a file exporting its config with `module.exports =`.
	ModuleCommonJS
)

const defaultIndentUnit = "  "

var (
	// ErrUnsupportedShape is returned when a file does not have a config layout
	// that can be edited without evaluating JavaScript.
	ErrUnsupportedShape = errors.New("unsupported config module shape")

	requireCall = regexp.MustCompile(`require ?\(|require ?['"]`)
)

type (
	// ModuleKind is the module system a config file uses.
	ModuleKind int

	// FlatConfig is a parsed ESLint flat config file with pending rule edits.
	FlatConfig struct {
		src    []byte
		kind   ModuleKind
		quote  byte
		unit   string
		target objectInfo
		// rules is nil when the chosen config object has no rules property.
		rules    *objectInfo
		existing map[string]ruleValue
		pending  []pendingRule
	}

	// RuleChange describes one rule written by Bytes.
	RuleChange struct {
		Name  string
		Added bool
	}

	objectInfo struct {
		open, close int
		empty       bool
		// innerBlank is set when only whitespace sits between the braces.
		innerBlank    bool
		singleLine    bool
		memberIndent  string
		closeIndent   string
		lastEnd       int
		trailingComma bool
		commaEnd      int
		commentEnd    int
	}

	ruleValue struct {
		start, end int
		literal    any
		ok         bool
	}

	pendingRule struct {
		name  string
		value any
	}

	edit struct {
		start, end int
		text       string
	}
)

// String returns the module kind name.
func (k ModuleKind) String() string {
	switch k {
	case ModuleESM:
		return "esm"
	case ModuleCommonJS:
		return "commonjs"
	default:
		return "unknown"
	}
}

// ParseFlatConfig parses an eslint.config.{js,mjs,cjs} file and picks the config object
// that rules should be written to: the first one whose files target .ts sources, else
// the first one without files, else the first one.
func ParseFlatConfig(ctx context.Context, src []byte) (*FlatConfig, error) {
	tree, err := parse(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := &FlatConfig{
		src:      src,
		kind:     detectKind(src),
		quote:    detectQuote(tree.RootNode(), src),
		existing: make(map[string]ruleValue),
	}

	expr := exportedExpression(tree.RootNode(), src, c.kind)
	if expr == nil {
		return nil, fmt.Errorf("%w: no exported config", ErrUnsupportedShape)
	}

	objects := configObjects(expr)
	if len(objects) == 0 {
		return nil, fmt.Errorf("%w: no config object in %s", ErrUnsupportedShape, expr.Type())
	}
	c.unit = detectIndentUnit(src, expr)

	obj := chooseConfigObject(objects, src)
	c.target = c.describe(obj)

	rulesProp := property(obj, src, "rules")
	if rulesProp == nil {
		return c, nil
	}
	rulesObj := rulesProp.ChildByFieldName("value")
	if rulesProp.Type() != "pair" || rulesObj == nil || rulesObj.Type() != "object" {
		return nil, fmt.Errorf("%w: rules is not an object literal", ErrUnsupportedShape)
	}
	info := c.describe(rulesObj)
	c.rules = &info

	for _, m := range members(rulesObj) {
		if m.Type() != "pair" {
			continue
		}
		name, ok := keyName(m.ChildByFieldName("key"), src)
		val := m.ChildByFieldName("value")
		if !ok || val == nil {
			continue
		}
		lit, err := literal(val, src)
		c.existing[name] = ruleValue{
			start:   int(val.StartByte()),
			end:     int(val.EndByte()),
			literal: lit,
			ok:      err == nil,
		}
	}
	return c, nil
}

// Kind returns the module system of the file.
func (c *FlatConfig) Kind() ModuleKind { return c.kind }

// Quote returns the string quote character used for new literals.
func (c *FlatConfig) Quote() byte { return c.quote }

// IndentUnit returns the indentation unit used for new lines.
func (c *FlatConfig) IndentUnit() string { return c.unit }

// Rule returns the current value of a rule when it is a plain literal.
func (c *FlatConfig) Rule(name string) (any, bool) {
	r, ok := c.existing[name]
	if !ok || !r.ok {
		return nil, false
	}
	return r.literal, true
}

// SetRule queues a rule value. Setting the same rule twice keeps the last value.
func (c *FlatConfig) SetRule(name string, value any) {
	for i := range c.pending {
		if c.pending[i].name == name {
			c.pending[i].value = value
			return
		}
	}
	c.pending = append(c.pending, pendingRule{name: name, value: value})
}

// Bytes applies the queued rules and returns the new source together with the rules
// that were written.
func (c *FlatConfig) Bytes() ([]byte, []RuleChange) {
	var (
		edits   []edit
		added   []string
		changes []RuleChange
	)

	for _, p := range c.pending {
		text := c.render(p.value)
		if cur, ok := c.existing[p.name]; ok {
			edits = append(edits, edit{start: cur.start, end: cur.end, text: text})
			changes = append(changes, RuleChange{Name: p.name})
			continue
		}
		added = append(added, c.quoteString(p.name)+": "+text)
		changes = append(changes, RuleChange{Name: p.name, Added: true})
	}

	if len(added) > 0 {
		if c.rules != nil {
			edits = append(edits, c.rules.insert(added)...)
		} else {
			edits = append(edits, c.target.insert([]string{c.rulesProperty(added)})...)
		}
	}

	out := slices.Clone(c.src)
	slices.SortStableFunc(edits, func(a, b edit) int { return b.start - a.start })
	for _, e := range edits {
		out = slices.Concat(out[:e.start:e.start], []byte(e.text), out[e.end:])
	}
	return out, changes
}

// rulesProperty renders a complete `rules: {...}` member for the target object.
func (c *FlatConfig) rulesProperty(entries []string) string {
	if c.target.singleLine && !c.target.empty {
		return "rules: { " + strings.Join(entries, ", ") + " }"
	}
	inner := c.target.memberIndent + c.unit
	var sb strings.Builder
	sb.WriteString("rules: {\n")
	for _, e := range entries {
		sb.WriteString(inner)
		sb.WriteString(e)
		sb.WriteString(",\n")
	}
	sb.WriteString(c.target.memberIndent)
	sb.WriteString("}")
	return sb.String()
}

// describe records where new members of obj go and how they are indented.
func (c *FlatConfig) describe(obj *sitter.Node) objectInfo {
	info := objectInfo{
		open:        int(obj.StartByte()),
		close:       int(obj.EndByte()) - 1,
		singleLine:  obj.StartPoint().Row == obj.EndPoint().Row,
		closeIndent: lineIndent(c.src, int(obj.StartByte())),
		commaEnd:    -1,
		commentEnd:  -1,
	}
	info.innerBlank = strings.TrimSpace(string(c.src[info.open+1:info.close])) == ""

	ms := members(obj)
	if len(ms) == 0 {
		info.empty = true
		info.memberIndent = info.closeIndent + c.unit
		return info
	}

	first, last := ms[0], ms[len(ms)-1]
	info.memberIndent = lineIndent(c.src, int(first.StartByte()))
	if first.StartPoint().Row == obj.StartPoint().Row {
		info.memberIndent = info.closeIndent + c.unit
	}
	info.lastEnd = int(last.EndByte())

	row := last.EndPoint().Row
	after := false
	for i := range int(obj.ChildCount()) {
		ch := obj.Child(i)
		if ch.StartByte() == last.StartByte() && ch.EndByte() == last.EndByte() {
			after = true
			continue
		}
		if !after {
			continue
		}
		switch {
		case ch.Type() == "," && !info.trailingComma:
			info.trailingComma = true
			info.commaEnd = int(ch.EndByte())
		case ch.Type() == "comment" && ch.StartPoint().Row == row:
			info.commentEnd = int(ch.EndByte())
		}
	}
	return info
}

// insert returns the edits that add entries as new members of the object.
func (o *objectInfo) insert(entries []string) []edit {
	switch {
	case o.empty:
		if o.innerBlank {
			text := "{\n" + o.memberIndent + strings.Join(entries, ",\n"+o.memberIndent) + ",\n" + o.closeIndent + "}"
			return []edit{{start: o.open, end: o.close + 1, text: text}}
		}
		text := "\n" + o.memberIndent + strings.Join(entries, ",\n"+o.memberIndent) + ",\n" + o.closeIndent
		return []edit{{start: o.close, end: o.close, text: text}}

	case o.singleLine:
		if o.trailingComma {
			return []edit{{start: o.commaEnd, end: o.commaEnd, text: " " + strings.Join(entries, ", ") + ","}}
		}
		return []edit{{start: o.lastEnd, end: o.lastEnd, text: ", " + strings.Join(entries, ", ")}}

	case o.trailingComma:
		at := max(o.commaEnd, o.commentEnd)
		text := "\n" + o.memberIndent + strings.Join(entries, ",\n"+o.memberIndent) + ","
		return []edit{{start: at, end: at, text: text}}

	default:
		text := "\n" + o.memberIndent + strings.Join(entries, ",\n"+o.memberIndent)
		if o.commentEnd < 0 {
			return []edit{{start: o.lastEnd, end: o.lastEnd, text: "," + text}}
		}
		return []edit{
			{start: o.commentEnd, end: o.commentEnd, text: text},
			{start: o.lastEnd, end: o.lastEnd, text: ","},
		}
	}
}

// render formats v as a single-line JavaScript literal.
func (c *FlatConfig) render(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return c.quoteString(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []string:
		parts := make([]string, len(x))
		for i, s := range x {
			parts[i] = c.quoteString(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = c.render(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		if len(x) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			key := k
			if !isIdentifier(k) {
				key = c.quoteString(k)
			}
			parts[i] = key + ": " + c.render(x[k])
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return c.quoteString(fmt.Sprint(x))
	}
}

func (c *FlatConfig) quoteString(s string) string {
	q := string(c.quote)
	r := strings.NewReplacer(`\`, `\\`, q, `\`+q, "\n", `\n`)
	return q + r.Replace(s) + q
}

func parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse javascript: %w", err)
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("%w: source contains syntax errors", ErrUnsupportedShape)
	}
	return tree, nil
}

func detectKind(src []byte) ModuleKind {
	if requireCall.Match(src) {
		return ModuleCommonJS
	}
	return ModuleESM
}

// detectQuote returns the quote of the first import source, defaulting to '"'.
func detectQuote(root *sitter.Node, src []byte) byte {
	for i := range int(root.NamedChildCount()) {
		ch := root.NamedChild(i)
		if ch.Type() != "import_statement" {
			continue
		}
		if s := ch.ChildByFieldName("source"); s != nil && s.EndByte() > s.StartByte() {
			if q := src[s.StartByte()]; q == '\'' || q == '"' {
				return q
			}
		}
		break
	}
	return '"'
}

// exportedExpression finds the value of `export default` or `module.exports =`.
// The form matching the detected module kind is tried first.
func exportedExpression(root *sitter.Node, src []byte, kind ModuleKind) *sitter.Node {
	finders := []func(*sitter.Node, []byte) *sitter.Node{esmExport, commonJSExport}
	if kind == ModuleCommonJS {
		finders[0], finders[1] = finders[1], finders[0]
	}
	for _, find := range finders {
		if n := find(root, src); n != nil {
			return unwrap(n)
		}
	}
	return nil
}

func esmExport(root *sitter.Node, _ []byte) *sitter.Node {
	for i := range int(root.NamedChildCount()) {
		ch := root.NamedChild(i)
		if ch.Type() != "export_statement" || !hasToken(ch, "default") {
			continue
		}
		if v := ch.ChildByFieldName("value"); v != nil {
			return v
		}
		return ch.ChildByFieldName("declaration")
	}
	return nil
}

func commonJSExport(root *sitter.Node, src []byte) *sitter.Node {
	for i := range int(root.NamedChildCount()) {
		ch := root.NamedChild(i)
		if ch.Type() != "expression_statement" || ch.NamedChildCount() == 0 {
			continue
		}
		assign := ch.NamedChild(0)
		if assign.Type() != "assignment_expression" {
			continue
		}
		left := assign.ChildByFieldName("left")
		if left != nil && strings.Join(strings.Fields(left.Content(src)), "") == "module.exports" {
			return assign.ChildByFieldName("right")
		}
	}
	return nil
}

func unwrap(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == "parenthesized_expression" && n.NamedChildCount() > 0 {
		n = n.NamedChild(0)
	}
	return n
}

// configObjects returns the config object literals of the exported expression.
func configObjects(expr *sitter.Node) []*sitter.Node {
	var list *sitter.Node
	switch expr.Type() {
	case "object":
		return []*sitter.Node{expr}
	case "array":
		list = expr
	case "call_expression":
		list = expr.ChildByFieldName("arguments")
	}
	if list == nil {
		return nil
	}

	var objects []*sitter.Node
	for _, el := range members(list) {
		switch el.Type() {
		case "object":
			objects = append(objects, el)
		case "array":
			for _, inner := range members(el) {
				if inner.Type() == "object" {
					objects = append(objects, inner)
				}
			}
		}
	}
	return objects
}

func chooseConfigObject(objects []*sitter.Node, src []byte) *sitter.Node {
	for _, obj := range objects {
		p := property(obj, src, "files")
		if p == nil || p.Type() != "pair" {
			continue
		}
		if v := p.ChildByFieldName("value"); v != nil && v.Type() == "array" && strings.Contains(v.Content(src), ".ts") {
			return obj
		}
	}
	for _, obj := range objects {
		if property(obj, src, "files") == nil {
			return obj
		}
	}
	return objects[0]
}

// detectIndentUnit measures the first line of the exported expression that is indented
// deeper than the line the expression starts on.
func detectIndentUnit(src []byte, expr *sitter.Node) string {
	base := lineIndent(src, int(expr.StartByte()))
	lines := strings.Split(string(src[expr.StartByte():expr.EndByte()]), "\n")
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		unit, ok := strings.CutPrefix(line[:len(line)-len(trimmed)], base)
		if !ok || unit == "" {
			continue
		}
		if unit[0] == '\t' {
			return "\t"
		}
		return unit
	}
	return defaultIndentUnit
}

// members returns the named children of an object or array, comments excluded.
func members(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := range int(n.NamedChildCount()) {
		ch := n.NamedChild(i)
		if ch.Type() == "comment" {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// property returns the member of obj named key, matching bare and quoted keys.
func property(obj *sitter.Node, src []byte, key string) *sitter.Node {
	for _, m := range members(obj) {
		switch m.Type() {
		case "pair":
			if name, ok := keyName(m.ChildByFieldName("key"), src); ok && name == key {
				return m
			}
		case "shorthand_property_identifier":
			if m.Content(src) == key {
				return m
			}
		}
	}
	return nil
}

func keyName(n *sitter.Node, src []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "property_identifier", "number":
		return n.Content(src), true
	case "string":
		s, err := stringValue(n, src)
		return s, err == nil
	default:
		return "", false
	}
}

func hasToken(n *sitter.Node, token string) bool {
	for i := range int(n.ChildCount()) {
		if ch := n.Child(i); !ch.IsNamed() && ch.Type() == token {
			return true
		}
	}
	return false
}

func lineIndent(src []byte, offset int) string {
	start := offset
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
