package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/emtquiz/internal/ui/theme"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, logStderr)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		current := theme.Load(ctx, e.kv)
		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), current)
			return nil
		}

		next := current.Toggle()
		if args[0] != "toggle" {
			if next, err = theme.ParseName(args[0]); err != nil {
				return err
			}
		}
		if err := theme.Save(ctx, e.kv, next); err != nil {
			return fmt.Errorf("save theme: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", next)
		return nil
	},
}
