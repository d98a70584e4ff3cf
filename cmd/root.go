package cmd

import (
	"github.com/corebc/go-corebc/logging"
	"github.com/spf13/cobra"
)

// cmdLogger is the logger used by command handlers for user-facing diagnostics.
var cmdLogger = logging.GlobalLogger.NewSubLogger("module", "cli")

var rootCmd = &cobra.Command{
	Use:   "corebc",
	Short: "A toolbox for Core blockchain contract interaction",
	Long:  "corebc is a command line toolbox for Core blockchain contract interaction: selectors, ABI encoding, and denomination conversion",
}

func Execute() error {
	return rootCmd.Execute()
}
