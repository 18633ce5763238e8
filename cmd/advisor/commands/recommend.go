package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/guardrail"
)

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Generate a recommendation with guardrail filtering",
	Long: `Asks the text model for portfolio additions and filters the
extracted tickers against allocation drift.

Guardrail modes:
  strict   - reject candidates in overweight sleeves (default)
  balanced - penalize overweight sleeves, keep positive scores
  off      - pass candidates through unfiltered

Example:
  go run ./cmd/advisor recommend
  go run ./cmd/advisor recommend --mode balanced`,
	RunE: runRecommend,
}

var recommendMode string

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVar(&recommendMode, "mode", "strict", "guardrail mode (strict|balanced|off)")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	d, cleanup, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	advice, err := d.assistant.Recommend(ctx, guardrail.ParseMode(recommendMode))
	if err != nil {
		return fmt.Errorf("generate recommendation: %w", err)
	}

	fmt.Println("🤖 Recommendation Report")
	PrintDoubleSeparator()
	fmt.Println(advice.Recommendation.Report)

	report := advice.Guardrail
	fmt.Printf("\n🛡️  Guardrail (%s)\n", report.Mode)
	PrintSeparator()

	fmt.Printf("ETFs   : %s\n", joinOrNone(report.ETFs))
	fmt.Printf("Stocks : %s\n", joinOrNone(report.Stocks))

	if len(report.Ranked) > 0 {
		fmt.Println("\nRanked candidates")
		for _, c := range report.Ranked {
			fmt.Printf("   %-10s %-18s %7.1f  %s\n",
				c.Ticker, c.AssetClass, c.Score, strings.Join(c.Reasons, "; "))
		}
	}

	if len(report.Dropped) > 0 {
		fmt.Println("\nDropped")
		for _, c := range report.Dropped {
			fmt.Printf("   %-10s %s\n", c.Ticker, c.Reason)
		}
	}

	if report.Note != "" {
		fmt.Println()
		PrintInfo(report.Note)
	}

	return nil
}

func joinOrNone(tickers []string) string {
	if len(tickers) == 0 {
		return "(none)"
	}
	return strings.Join(tickers, ", ")
}
