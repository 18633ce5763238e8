package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Value holdings against live quotes",
	Long: `Prints each holding with its latest close, market value and
profit/loss, plus portfolio totals.

Example:
  go run ./cmd/advisor summary`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	d, cleanup, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := d.assistant.Summary(ctx)
	if err != nil {
		return fmt.Errorf("build summary: %w", err)
	}

	fmt.Println("📊 Portfolio Summary")
	PrintDoubleSeparator()

	if len(summary.Positions) == 0 {
		PrintInfo("No holdings yet")
		return nil
	}

	fmt.Printf("%-10s %8s %10s %10s %10s %8s\n",
		"TICKER", "SHARES", "BUY", "PRICE", "VALUE", "P/L")
	PrintSeparator()

	for _, p := range summary.Positions {
		if !p.HasPrice {
			fmt.Printf("%-10s %8.0f %10s %10s %10s %8s\n",
				p.Ticker, p.Shares, formatMoney(p.BuyPrice), "N/A", "N/A", "N/A")
			continue
		}
		fmt.Printf("%-10s %8.0f %10s %10s %10s %7.1f%%\n",
			p.Ticker, p.Shares, formatMoney(p.BuyPrice),
			formatMoney(p.CurrentPrice), formatMoney(p.Value), p.PnLPercent)
	}

	PrintSeparator()
	fmt.Printf("Total value : %s\n", formatMoney(summary.TotalValue))
	if summary.HasReturn {
		fmt.Printf("Total cost  : %s\n", formatMoney(summary.TotalCost))
		fmt.Printf("Return      : %+.2f%%\n", summary.TotalReturnPct)
	}

	return nil
}
