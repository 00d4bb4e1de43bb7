// Package cli implements the pulsewire-cli commands: a set of synchronous
// test/demo clients for the server's endpoints.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	baseURL    string
	jsonOutput bool
	autoMode   bool
)

var rootCmd = &cobra.Command{
	Use:   "pulsewire-cli",
	Short: "Demo client for the PulseWire streaming and mock tool server",
	Long: `pulsewire-cli exercises the PulseWire demo server: it can follow the
SSE streams, send broadcasts, call mock tools and run the full check
sequence. Invoked with no arguments it opens an interactive menu;
with --auto it runs every check and reports a pass/fail summary.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if autoMode {
			return runChecks(cmd.OutOrStdout())
		}
		return runMenu(cmd)
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "http://127.0.0.1:8000", "Server base URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print raw JSON responses")
	rootCmd.Flags().BoolVar(&autoMode, "auto", false, "Run the full check sequence and exit")
}
