package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/emtquiz/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the interactive quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens storage, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd, logFile)
	if err != nil {
		return err
	}
	defer e.Close()

	deps := e.deps(ctx)
	e.logger.Info("starting TUI", "db", e.dbPath, "topics", len(deps.Topics.Names()), "history", deps.History.Len())
	if err := app.Run(ctx, deps, e.kv); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
