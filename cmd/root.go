package cmd

import (
	"github.com/spf13/cobra"
)

// Version is overridden at startup from the embedded VERSION file.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mediasort",
	Short: "Organize photos and videos by capture date and location",
}

func Execute() error {
	return rootCmd.Execute()
}

// ApplyVersion pushes the current Version into the root command.
func ApplyVersion() {
	rootCmd.Version = Version
}

func init() {
	ApplyVersion()
}
