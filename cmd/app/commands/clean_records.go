package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/allisson/cartkeeper/internal/app"
	"github.com/allisson/cartkeeper/internal/config"
)

// RunCleanRecords deletes completed and converted cart records older than the
// specified number of days. Supports dry-run mode to preview the deletion count
// and both text/JSON output formats.
func RunCleanRecords(ctx context.Context, days int, dryRun bool, format string) error {
	// Validate days parameter
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()
	logger.Info("cleaning terminal cart records",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Get maintenance use case from container
	maintenanceUseCase, err := container.MaintenanceUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize maintenance use case: %w", err)
	}

	// Execute deletion or count operation
	count, err := maintenanceUseCase.CleanTerminalRecords(ctx, time.Duration(days)*24*time.Hour, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean records: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputCleanJSON(count, days, dryRun)
	} else {
		outputCleanText(count, days, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanText outputs the result in human-readable text format.
func outputCleanText(count int64, days int, dryRun bool) {
	if dryRun {
		fmt.Printf("Dry-run mode: Would delete %d cart record(s) older than %d day(s)\n", count, days)
	} else {
		fmt.Printf("Successfully deleted %d cart record(s) older than %d day(s)\n", count, days)
	}
}

// outputCleanJSON outputs the result in JSON format for machine consumption.
func outputCleanJSON(count int64, days int, dryRun bool) {
	result := map[string]interface{}{
		"count":   count,
		"days":    days,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Println(string(jsonBytes))
}
