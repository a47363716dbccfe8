// files.go implements the commands that write starter files
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nainya/commsdesk/internal/config"
	"github.com/nainya/commsdesk/pkg/seed"
)

func newExportSeedCmd() *cobra.Command {
	opts := seed.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "export-seed <path>",
		Short: "Write a generated data set as a JSON fixture",
		Long: `Write a generated data set to a JSON file. Edit it and start the
server with --seed-file (and --watch to pick up further edits).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds := seed.Generate(opts)
			if err := seed.WriteFile(args[0], ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d calls and %d threads to %s\n",
				len(ds.Calls), len(ds.Threads), args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Calls, "calls", opts.Calls, "Number of call records")
	cmd.Flags().IntVar(&opts.Threads, "threads", opts.Threads, "Number of SMS threads")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "Random seed")

	return cmd
}

func newWriteConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write-config <path>",
		Short: "Write the default configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteConfig(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", args[0])
			return nil
		},
	}
}
