// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/strictly-typed/strictly/internal/strict"
)

func newListCommand(app *App) *cobra.Command {
	var details bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the supported targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if details {
				return app.listDetails(cmd.Context())
			}
			app.listTargets()
			return nil
		},
	}
	cmd.Flags().BoolVar(&details, "details", false, "render the settings each target changes")
	return cmd
}

func (a *App) listTargets() {
	width := 0
	for _, name := range strict.Names() {
		width = max(width, lipgloss.Width(name))
	}
	nameStyle := CmdStyle.Width(width + 2)
	for _, target := range strict.All() {
		_, _ = fmt.Fprintln(a.stdout, nameStyle.Render(target.Name())+target.Title())
	}
}

// listDetails renders every target description as one Markdown document.
func (a *App) listDetails(ctx context.Context) error {
	var md strings.Builder
	for _, target := range strict.All() {
		fmt.Fprintf(&md, "# %s (`%s`)\n\n", target.Title(), target.Name())
		if d, ok := target.(strict.Describer); ok {
			md.WriteString(d.Describe())
			md.WriteString("\n\n")
		}
	}

	if loaded, err := a.loadConfig(ctx, "."); err == nil {
		a.colorScheme = loaded.Config.UI.ColorScheme
	}
	rendered, err := glamour.Render(md.String(), a.colorScheme.GlamourStyle())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(a.stdout, rendered)
	return err
}
