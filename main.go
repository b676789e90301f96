package main

import (
	"os"

	"github.com/cadenzr/go-timeline-engine/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
