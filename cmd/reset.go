package cmd

import "github.com/spf13/cobra"

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all quiz history and custom topics",
	Long:  "Delete all quiz history and custom topics. Same as `history clear`.",
	RunE:  runClear,
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
