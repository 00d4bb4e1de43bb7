package main

import (
	"os"

	"github.com/PulseWire/pulsewire-demo/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
