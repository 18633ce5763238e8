package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Portfolio assistant - allocation drift and capital deployment",
	Long: `Portfolio Assistant CLI

Self-directed portfolio helper: values holdings, tracks allocation
drift against a target policy, generates daily trading signals, and
decides how to deploy fresh capital.

Usage:
  go run ./cmd/advisor [command]

Examples:
  go run ./cmd/advisor summary
  go run ./cmd/advisor allocation
  go run ./cmd/advisor signals
  go run ./cmd/advisor deploy 500
  go run ./cmd/advisor api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
