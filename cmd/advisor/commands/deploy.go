package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
)

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy <cash>",
	Short: "Decide how to deploy fresh capital",
	Long: `Runs the full pipeline (allocation drift, daily signals,
recommendation) and produces one terminal decision: WAIT with a
reason, a single BUY, or a BUY_BASKET of sized positions.

Example:
  go run ./cmd/advisor deploy 500`,
	Args: cobra.ExactArgs(1),
	RunE: runDeploy,
}

func init() {
	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cash, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid cash amount %q", args[0])
	}

	ctx := context.Background()

	d, cleanup, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Printf("💰 Deploying %s\n", formatMoney(cash))
	PrintDoubleSeparator()

	decision, err := d.assistant.Deploy(ctx, cash)
	if err != nil {
		return fmt.Errorf("deploy capital: %w", err)
	}

	switch decision.Action {
	case contracts.ActionBuy:
		PrintSuccess(fmt.Sprintf("BUY %d x %s", decision.Shares, decision.Ticker))
		fmt.Printf("Reason: %s\n", decision.Reason)

	case contracts.ActionBuyBasket:
		PrintSuccess("BUY_BASKET")
		for _, p := range decision.Positions {
			fmt.Printf("   %-10s %4d shares  (%s)\n", p.Ticker, p.Shares, p.AssetClass)
		}
		fmt.Printf("Reason: %s\n", decision.Reason)

	default:
		PrintWarning(fmt.Sprintf("WAIT: %s", decision.Reason))
	}

	if len(decision.MatrixTop) > 0 {
		fmt.Println("\nTop candidates")
		for _, c := range decision.MatrixTop {
			fmt.Printf("   %-10s %-18s %7.1f  %s\n",
				c.Ticker, c.AssetClass, c.Score, strings.Join(c.Reasons, "; "))
		}
	}

	return nil
}
