package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/allisson/cartkeeper/internal/app"
	"github.com/allisson/cartkeeper/internal/cart/usecase"
	"github.com/allisson/cartkeeper/internal/config"
)

// RunSweep executes a single reminder sweep over all active cart records.
// Dispatches due reminders, advances record statuses, and prints the run
// counters in text or JSON format. Designed to run from cron or a scheduler.
func RunSweep(ctx context.Context, format string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("starting reminder sweep")

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Get sweep use case from container
	sweepUseCase, err := container.SweepUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize sweep use case: %w", err)
	}

	result, err := sweepUseCase.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to run sweep: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputSweepJSON(result)
	} else {
		outputSweepText(result)
	}

	logger.Info("sweep completed",
		slog.String("run_id", result.RunID),
		slog.Int("active_records", result.Seen),
		slog.Int("advanced", result.Advanced),
		slog.Int("failed", result.Failed),
		slog.Int("skipped", result.Skipped),
	)

	return nil
}

// outputSweepText outputs the sweep result in human-readable text format.
func outputSweepText(result *usecase.SweepResult) {
	fmt.Printf("Sweep %s finished\n", result.RunID)
	fmt.Printf("  Active records: %d\n", result.Seen)
	fmt.Printf("  Advanced:       %d\n", result.Advanced)
	fmt.Printf("  Failed:         %d\n", result.Failed)
	fmt.Printf("  Skipped:        %d\n", result.Skipped)
}

// outputSweepJSON outputs the sweep result in JSON format for machine consumption.
func outputSweepJSON(result *usecase.SweepResult) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(result)
}
