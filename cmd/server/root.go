package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "msmeconnect",
	Short:        "MSME Connect onboarding backend",
	SilenceUsage: true,
	Long: `MSME Connect onboards micro and small enterprises to ONDC: it
categorizes products against the ONDC taxonomy and recommends seller
network participants. Without a subcommand the HTTP API is served.`,
	RunE: runServe,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
