package main

import (
	"os"

	"github.com/pojntfx/tget/cmd/tget/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
