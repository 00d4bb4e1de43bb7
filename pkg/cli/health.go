package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check if the server is healthy and reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var result map[string]any
		if err := getJSON("/health", &result); err != nil {
			fmt.Fprintf(os.Stderr, "unhealthy: %v\n", err)
			return fmt.Errorf("server is not healthy")
		}
		if jsonOutput {
			printResult(result)
			return nil
		}
		fmt.Printf("healthy: %v v%v\n", result["server"], result["version"])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
