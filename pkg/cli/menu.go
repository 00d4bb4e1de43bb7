package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// runMenu loops an interactive selector until the user quits. Each choice
// maps onto the same code paths the subcommands use.
func runMenu(cmd *cobra.Command) error {
	for {
		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("PulseWire demo client").
					Description(fmt.Sprintf("server: %s", baseURL)).
					Options(
						huh.NewOption("Health check", "health"),
						huh.NewOption("Follow main stream (/stream)", "stream"),
						huh.NewOption("Follow metrics stream (/metrics)", "metrics"),
						huh.NewOption("Follow custom channel (/realtime/demo)", "realtime"),
						huh.NewOption("Send a broadcast", "broadcast"),
						huh.NewOption("List tools", "tools"),
						huh.NewOption("Run all checks", "check"),
						huh.NewOption("Quit", "quit"),
					).
					Value(&choice),
			),
		)
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		var err error
		switch choice {
		case "health":
			err = checkHealth(cmd.OutOrStdout())
		case "stream":
			err = followStream("/stream", 15*time.Second)
		case "metrics":
			err = followStream("/metrics", 15*time.Second)
		case "realtime":
			err = followStream("/realtime/demo", 15*time.Second)
		case "broadcast":
			err = menuBroadcast()
		case "tools":
			err = toolListCmd.RunE(cmd, nil)
		case "check":
			err = runChecks(cmd.OutOrStdout())
		case "quit":
			return nil
		}
		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
		fmt.Println()
	}
}

func menuBroadcast() error {
	var message string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Broadcast message").
				Placeholder("Hello from the menu").
				Value(&message).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("message is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return err
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
	fmt.Printf("broadcast sent: %v\n", result["status"])
	return nil
}
