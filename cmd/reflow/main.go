package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reflow",
		Short: "Fine-grained reactive stores for Go",
		Long: `Reflow keeps deeply nested state reactive at the path level.

A store wraps one value; accessors address paths inside it, and
observers re-run only when a path they actually read changes.
The CLI ships a demo live server and a throughput benchmark:

  • serve  — stream a demo store to WebSocket clients
  • bench  — measure write and notification throughput`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		benchCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
