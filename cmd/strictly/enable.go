// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/strictly-typed/strictly/internal/strict"
)

func newEnableCommand(app *App) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "enable [target...]",
		Short: "Enable strict mode for the named targets only",
		Long: `Enable strict mode for the named targets only.

Without arguments every target from the settings file runs, like the root
command. Named targets ignore the skip list.`,
		Example: `  strictly enable typescript eslint
  strictly enable biome --dir ./packages/web`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
			return strict.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd.Context(), dir, args)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "project directory")
	return cmd
}
