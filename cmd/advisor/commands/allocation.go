package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
)

// allocationCmd represents the allocation command
var allocationCmd = &cobra.Command{
	Use:   "allocation",
	Short: "Show allocation drift against the target policy",
	Long: `Compares the current allocation (equal weight per position)
against the built-in target policy and prints per-sleeve drift plus
rebalance suggestions.

Example:
  go run ./cmd/advisor allocation`,
	RunE: runAllocation,
}

func init() {
	rootCmd.AddCommand(allocationCmd)
}

func runAllocation(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	d, cleanup, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := d.assistant.Allocation(ctx)
	if err != nil {
		return fmt.Errorf("compute allocation: %w", err)
	}

	fmt.Println("📐 Allocation Drift")
	PrintDoubleSeparator()
	fmt.Printf("Holdings: %d\n\n", len(report.Holdings))

	fmt.Printf("%-18s %8s %8s %8s\n", "ASSET CLASS", "ACTUAL", "TARGET", "DRIFT")
	PrintSeparator()
	for _, class := range contracts.AssetClasses() {
		target, tracked := report.Target[class]
		actual := report.Current[class]
		if !tracked && actual == 0 {
			continue
		}
		drift := report.Drift[class]
		fmt.Printf("%-18s %7.1f%% %7.1f%% %8s\n",
			class, actual*100, target*100, formatPercent(drift))
	}

	fmt.Println()
	if len(report.Suggestions) == 0 {
		PrintSuccess("Allocation within tolerance")
		return nil
	}

	fmt.Println("💡 Suggestions")
	PrintList(report.Suggestions)
	return nil
}
