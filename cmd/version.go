package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abhisek/emtquiz/internal/knowledge"
)

// version is set via -ldflags at build time. go install builds fall back
// to the module version recorded in the binary.
var version = ""

func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and knowledge base size",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "emtquiz %s (%d built-in topics)\n",
			buildVersion(), len(knowledge.Builtins()))
	},
}
