package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/PulseWire/pulsewire-demo/pkg/sseclient"
	"github.com/spf13/cobra"
)

var streamDuration time.Duration

var streamCmd = &cobra.Command{
	Use:   "stream [endpoint]",
	Short: "Follow an SSE endpoint and print each event",
	Long: `Follow an SSE endpoint (default /stream) until interrupted or until
--duration elapses. Events are formatted by kind: heartbeats show CPU
and memory, notifications show their level and message, sensor events
show the readings, metrics payloads are summarized, everything else
falls back to the message text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/stream"
		if len(args) == 1 {
			endpoint = args[0]
		}
		return followStream(endpoint, streamDuration)
	},
}

func followStream(endpoint string, duration time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	fmt.Printf("connecting to %s%s (Ctrl-C to stop)\n", baseURL, endpoint)
	c := sseclient.New(baseURL)
	if err := c.Connect(ctx, endpoint, nil); err != nil {
		return err
	}
	fmt.Println("stream closed")
	return nil
}

func init() {
	streamCmd.Flags().DurationVar(&streamDuration, "duration", 0, "Stop after this long (0 = until interrupted)")
	rootCmd.AddCommand(streamCmd)
}
