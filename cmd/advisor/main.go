package main

import (
	"os"

	"github.com/lindanguyen886/portfolio-assistant-ai/cmd/advisor/commands"
)

// main is the entry point for the advisor CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
