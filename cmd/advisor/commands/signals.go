package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// signalsCmd represents the signals command
var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Run daily signals for holdings and watchlist",
	Long: `Evaluates every holding (ADD/HOLD/TRIM/AVOID/WAIT) and every
watchlist ticker (entry-timing verdict) from technical, fundamental
and sentiment reads.

Example:
  go run ./cmd/advisor signals`,
	RunE: runSignals,
}

func init() {
	rootCmd.AddCommand(signalsCmd)
}

func runSignals(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	d, cleanup, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	daily, err := d.assistant.DailySignals(ctx)
	if err != nil {
		return fmt.Errorf("generate signals: %w", err)
	}

	fmt.Println("📡 Daily Signals")
	PrintDoubleSeparator()

	fmt.Printf("Holdings (%d)\n", len(daily.Holdings))
	PrintSeparator()
	if len(daily.Holdings) == 0 {
		PrintInfo("No holdings to evaluate")
	}
	for _, h := range daily.Holdings {
		fmt.Printf("%-10s %-6s  %s\n", h.Ticker, h.Decision, strings.Join(h.Reasoning, "; "))
	}

	fmt.Printf("\nWatchlist (%d)\n", len(daily.Watch))
	PrintSeparator()
	if len(daily.Watch) == 0 {
		PrintInfo("Watchlist is empty")
	}
	for _, w := range daily.Watch {
		fmt.Printf("%-10s %-14s %-16s %s\n", w.Ticker, w.Action,
			w.Decision.Decision, strings.Join(w.Decision.Reasoning, "; "))
	}

	return nil
}
