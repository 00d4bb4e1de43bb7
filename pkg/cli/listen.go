package cli

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Follow the websocket event feed (/ws)",
	Long: `Connect to the server's websocket endpoint and print every bus event
(broadcasts and tool execution notifications) as it is published.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := url.Parse(baseURL)
		if err != nil {
			return err
		}
		u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
		u.Path = "/ws"

		conn, _, err := websocket.DefaultDialer.Dial(u.String(), http.Header{"User-Agent": {"pulsewire-cli"}})
		if err != nil {
			return fmt.Errorf("dial %s: %w", u.String(), err)
		}
		defer conn.Close()
		fmt.Printf("listening on %s (Ctrl-C to stop)\n", u.String())

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		go func() {
			<-interrupt
			_ = conn.Close()
		}()

		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				// Cierre del lado cliente o del servidor.
				fmt.Println("connection closed")
				return nil
			}
			printResult(msg)
		}
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)
}
