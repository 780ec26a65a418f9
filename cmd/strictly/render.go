// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/strictly-typed/strictly/internal/strict"
)

// renderReport writes one line per target and, for applied targets, the
// changes made. Changes of every target are listed when verbose is set.
//
//	applied    TypeScript  tsconfig.json (7 changes)
//	             ~ compilerOptions.strict = true
//	skipped    Deno        no deno.json or deno.jsonc found
func renderReport(w io.Writer, report *strict.Report, verbose bool) {
	titles := make(map[string]string)
	width := 0
	for _, target := range strict.All() {
		titles[target.Name()] = target.Title()
		width = max(width, lipgloss.Width(target.Title()))
	}
	titleStyle := lipgloss.NewStyle().Width(width + 2)

	for _, out := range report.Outcomes {
		title := titles[out.Target]
		if title == "" {
			title = out.Target
		}

		var line strings.Builder
		line.WriteString(statusStyle(out.Status).Inherit(statusWidth).Render(out.Status.String()))
		line.WriteString(titleStyle.Render(title))
		line.WriteString(outcomeDetail(out))
		_, _ = fmt.Fprintln(w, strings.TrimRight(line.String(), " "))

		if out.Status == strict.StatusApplied || verbose {
			for _, change := range out.Changes {
				_, _ = fmt.Fprintln(w, strings.Repeat(" ", 12)+VerboseStyle.Render(change.String()))
			}
		}
	}
}

func outcomeDetail(out strict.Outcome) string {
	switch out.Status {
	case strict.StatusApplied:
		detail := CmdStyle.Render(out.File) + SubtitleStyle.Render(fmt.Sprintf(" (%s)", plural(len(out.Changes), "change")))
		if n := len(out.Warnings()); n > 0 {
			detail += WarningStyle.Render(fmt.Sprintf(" %s", plural(n, "warning")))
		}
		return detail
	case strict.StatusUnchanged:
		return CmdStyle.Render(out.File) + SubtitleStyle.Render(" already strict")
	case strict.StatusSkipped:
		if len(out.Notes) == 0 {
			return ""
		}
		return SubtitleStyle.Render(out.Notes[0].Text)
	case strict.StatusFailed:
		if out.Err != nil {
			return ErrorStyle.Render(out.Err.Error())
		}
		return ""
	default:
		return ""
	}
}

func statusStyle(s strict.Status) lipgloss.Style {
	switch s {
	case strict.StatusApplied:
		return SuccessStyle
	case strict.StatusSkipped:
		return WarningStyle
	case strict.StatusFailed:
		return ErrorStyle
	default:
		return SubtitleStyle
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
