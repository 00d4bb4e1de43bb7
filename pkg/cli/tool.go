package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var toolParams string

var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Inspect and call the server's mock tools",
}

var toolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available tools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var result map[string]any
		if err := getJSON("/mcp/tools", &result); err != nil {
			return err
		}
		if jsonOutput {
			printResult(result)
			return nil
		}
		toolsList, _ := result["tools"].([]any)
		for _, t := range toolsList {
			def, _ := t.(map[string]any)
			fmt.Printf("%-22v %v\n", def["name"], def["description"])
		}
		return nil
	},
}

var toolInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show a tool's definition and input schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var result map[string]any
		if err := getJSON("/mcp/tools/"+args[0], &result); err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var toolExecCmd = &cobra.Command{
	Use:   "exec <name>",
	Short: "Execute a tool with JSON parameters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{}
		if toolParams != "" {
			if err := json.Unmarshal([]byte(toolParams), &params); err != nil {
				return fmt.Errorf("invalid --params: %w", err)
			}
		}

		var result map[string]any
		if err := postJSON("/mcp/tools/"+args[0]+"/execute", params, &result); err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

func init() {
	toolExecCmd.Flags().StringVar(&toolParams, "params", "", "Tool parameters as a JSON object")
	toolCmd.AddCommand(toolListCmd, toolInfoCmd, toolExecCmd)
	rootCmd.AddCommand(toolCmd)
}
