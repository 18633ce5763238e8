package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// watchlistCmd represents the watchlist command
var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage the watchlist",
	Long: `Lists, adds or removes watchlist tickers. Tickers are
normalized to uppercase and deduplicated.

Example:
  go run ./cmd/advisor watchlist
  go run ./cmd/advisor watchlist add vcn.to
  go run ./cmd/advisor watchlist remove VCN.TO`,
	RunE: runWatchlistShow,
}

// watchlistAddCmd represents the add subcommand
var watchlistAddCmd = &cobra.Command{
	Use:   "add <ticker>...",
	Short: "Add tickers to the watchlist",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatchlistAdd,
}

// watchlistRemoveCmd represents the remove subcommand
var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove <ticker>",
	Short: "Remove a ticker from the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatchlistRemove,
}

func init() {
	rootCmd.AddCommand(watchlistCmd)
	watchlistCmd.AddCommand(watchlistAddCmd)
	watchlistCmd.AddCommand(watchlistRemoveCmd)
}

func runWatchlistShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	d, cleanup, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	watchlist, err := d.manager.Get(ctx)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}

	fmt.Println("👀 Watchlist")
	PrintDoubleSeparator()
	if len(watchlist) == 0 {
		PrintInfo("Watchlist is empty")
		return nil
	}
	PrintList(watchlist)
	return nil
}

func runWatchlistAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	d, cleanup, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	watchlist, err := d.manager.Add(ctx, args...)
	if err != nil {
		return fmt.Errorf("add to watchlist: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Watchlist now has %d tickers", len(watchlist)))
	PrintList(watchlist)
	return nil
}

func runWatchlistRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	d, cleanup, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	watchlist, err := d.manager.Remove(ctx, args[0])
	if err != nil {
		return fmt.Errorf("remove from watchlist: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Watchlist now has %d tickers", len(watchlist)))
	return nil
}
