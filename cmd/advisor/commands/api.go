package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/api"
	"github.com/lindanguyen886/portfolio-assistant-ai/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server with a websocket price stream.

Endpoints:
  GET    /health                    - Health check
  GET    /api/portfolio/summary     - Valued holdings
  GET    /api/portfolio/allocation  - Allocation drift
  GET    /api/portfolio/holdings    - Raw holdings
  PUT    /api/portfolio/holdings    - Replace holdings
  GET    /api/signals/daily         - Daily signals
  GET    /api/recommendation        - Guardrailed recommendation
  POST   /api/deploy                - Capital deployment decision
  GET    /api/watchlist             - Watchlist
  POST   /api/watchlist             - Add ticker
  DELETE /api/watchlist/{ticker}    - Remove ticker
  GET    /ws/prices                 - Price stream

Example:
  go run ./cmd/advisor api
  go run ./cmd/advisor api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Portfolio Assistant API Server ===")

	ctx := context.Background()

	d, cleanup, err := initDeps(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	healthHandler := handlers.NewHealthHandler(d.cfg.Storage.Backend, d.db)
	portfolioHandler := handlers.NewPortfolioHandler(d.assistant, d.store, d.log)
	advisorHandler := handlers.NewAdvisorHandler(d.assistant, d.log)
	watchlistHandler := handlers.NewWatchlistHandler(d.manager, d.log)
	streamHandler := handlers.NewStreamHandler(d.store, d.prices, d.log)

	router := api.NewRouter(healthHandler, portfolioHandler, advisorHandler,
		watchlistHandler, streamHandler, d.log)
	server := api.New(d.cfg, d.log, router)

	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	PrintSuccess(fmt.Sprintf("Server running on http://localhost:%s", d.cfg.Port))
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	d.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	d.log.Info("Server stopped")
	return nil
}
