// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	ConfigLoadFailedId Id = iota + 1
	UnknownTargetId
	DirtyWorktreeId
	TargetParseFailedId
	NothingToStrictId
	PermissionDeniedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // project documentation for this issue
		extLinks []HttpLink  // tool documentation that might be useful for the user
	}
)

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load strictly settings!

The settings file could not be read or does not match the expected schema.

## Settings are looked up in this order:
1. The file passed with ` + "`--config`" + `
2. ` + "`strictly.cue`" + ` in the project directory
3. ` + "`config.cue`" + ` in the user config directory

## Things you can try:
- Print the file in use:
~~~
$ strictly config path
~~~

- Start over from the defaults:
~~~
$ strictly config init --force
~~~

## Example settings:
~~~cue
targets: ["typescript", "eslint"]
skip: ["tslint"]
git_check: true
ui: color_scheme: "auto"
~~~`,
	}

	unknownTargetIssue = &Issue{
		id: UnknownTargetId,
		mdMsg: `
# Unknown target!

strictly only knows how to harden a fixed set of tools.

## Things you can try:
- List the supported targets and what each one changes:
~~~
$ strictly list --details
~~~

- Check the spelling in ` + "`targets`" + ` and ` + "`skip`" + ` of your settings file.`,
	}

	dirtyWorktreeIssue = &Issue{
		id: DirtyWorktreeId,
		mdMsg: `
# Uncommitted changes found!

strictly rewrites configuration files in place. Committing or stashing first
makes every change it makes easy to review and revert.

## Things you can try:
- Commit or stash your work:
~~~
$ git stash
~~~

- Preview the changes without writing anything:
~~~
$ strictly --dry-run
~~~

- Skip the check for this run:
~~~
$ strictly --force
~~~`,
	}

	targetParseFailedIssue = &Issue{
		id: TargetParseFailedId,
		mdMsg: `
# Failed to parse a tool configuration!

A configuration file was found but its contents could not be parsed, so it
was left untouched.

## Common issues:
- Trailing garbage after the top-level object
- A YAML file using tabs for indentation
- A JavaScript config that does not export a plain object literal

## Things you can try:
- Run with ` + "`--verbose`" + ` to see the parser error.
- Convert the file to JSON and run strictly again.`,
		extLinks: []HttpLink{
			"https://www.typescriptlang.org/tsconfig/",
			"https://eslint.org/docs/latest/use/configure/configuration-files",
		},
	}

	nothingToStrictIssue = &Issue{
		id: NothingToStrictId,
		mdMsg: `
# No configuration files found!

None of the selected targets found a configuration file to update.

## Things you can try:
- Run strictly from the project root, or pass it:
~~~
$ strictly path/to/project
~~~

- Create a tsconfig.json first:
~~~
$ npx tsc --init
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

A configuration file could not be written.

## Things you can try:
- Check the file permissions:
~~~
$ ls -l tsconfig.json
~~~

- Make sure no other process holds the file open.`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():  configLoadFailedIssue,
		unknownTargetIssue.Id():     unknownTargetIssue,
		dirtyWorktreeIssue.Id():     dirtyWorktreeIssue,
		targetParseFailedIssue.Id(): targetParseFailedIssue,
		nothingToStrictIssue.Id():   nothingToStrictIssue,
		permissionDeniedIssue.Id():  permissionDeniedIssue,
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue with the named glamour style ("auto", "dark", "light").
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

// Values returns every registered issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
