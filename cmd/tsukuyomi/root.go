package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for Tsukuyomi.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tsukuyomi",
		Short: "Deterministic crawler trap HTTP server",
		Long: `Tsukuyomi serves a practically infinite graph of interlinked pages
generated on the fly from a secret salt. Every page is deterministic, so the
trap needs no storage for the graph itself; crawlers that ignore robots.txt
descend forever while the trap slows them down and records their visits.

Start the trap with "serve", inspect recorded activity with "report", and
verify a running trap's guarantees with "probe".`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewProbeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
