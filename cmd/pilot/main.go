package main

import (
	"os"

	"github.com/rustyeddy/cryptopilot/cmd/pilot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
