package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var broadcastCmd = &cobra.Command{
	Use:   "broadcast [message]",
	Short: "Send a broadcast message and print the acknowledgement",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := "Test broadcast from pulsewire-cli"
		if len(args) == 1 {
			message = args[0]
		}

		var result map[string]any
		err := postJSON("/api/broadcast", map[string]any{
			"message":   message,
			"timestamp": time.Now().Format(time.RFC3339),
			"sender":    "pulsewire-cli",
		}, &result)
		if err != nil {
			return err
		}
		if jsonOutput {
			printResult(result)
			return nil
		}
		fmt.Printf("broadcast sent: %v\n", result["status"])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(broadcastCmd)
}
