package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("obaldap %s (%s)\n", Version, Commit)
		fmt.Printf("  Go version: %s\n", runtime.Version())
	},
}
