package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at link time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "cellctl %s (%s)\n", version, runtime.Version())
		fmt.Fprintf(out, "  commit: %s\n  built:  %s\n", commit, date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
