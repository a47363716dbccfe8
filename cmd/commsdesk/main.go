// CommsDesk server and tools
// Serves the call log, SMS inbox and contact timelines over gRPC and HTTP
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev" // set via ldflags at build time

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "commsdesk",
		Short: "Call log and SMS inbox service",
		Long: `commsdesk serves a call log, an SMS inbox and per-contact interaction
timelines over gRPC and a JSON HTTP API, backed by seeded in-memory data.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newTimelineCmd())
	root.AddCommand(newExportSeedCmd())
	root.AddCommand(newWriteConfigCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
