package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/scheduler"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the background job scheduler",
	Long: `Starts the cron scheduler in the foreground.

Jobs:
  price-cache-warm        - warm quote cache before the open (weekdays 09:15)
  watch-decision-refresh  - refresh cached watch decisions (weekdays 09:00)

Example:
  go run ./cmd/advisor scheduler
  go run ./cmd/advisor scheduler --run-now price-cache-warm`,
	RunE: runScheduler,
}

var schedulerRunNow string

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().StringVar(&schedulerRunNow, "run-now", "", "trigger a job immediately on startup")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Portfolio Assistant Scheduler ===")

	ctx := context.Background()

	d, cleanup, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sched := scheduler.New(d.log)

	jobList := []scheduler.Job{
		jobs.NewPriceWarmJob(d.store, d.prices, d.log),
		jobs.NewWatchRefreshJob(d.store, d.generator, d.decisions, d.cache, d.log),
	}
	for _, job := range jobList {
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("add job: %w", err)
		}
		fmt.Printf("   • %s (%s)\n", job.Name(), job.Schedule())
	}

	sched.Start()
	defer sched.Stop()

	if schedulerRunNow != "" {
		if err := sched.RunJob(schedulerRunNow); err != nil {
			return fmt.Errorf("run job: %w", err)
		}
		PrintInfo(fmt.Sprintf("Triggered %s", schedulerRunNow))
	}

	PrintSuccess("Scheduler running")
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
