package main

import (
	"os"

	"github.com/dialdesk-systems/dialdesk-stack/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
