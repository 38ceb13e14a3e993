package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/cartkeeper/internal/app"
	"github.com/allisson/cartkeeper/internal/config"
)

// RunMigrations executes database migrations for the SQL store backends.
// Determines migration path from StoreDriver (postgres or mysql) and applies all
// pending migrations. Returns nil if no migrations to apply.
func RunMigrations() error {
	cfg := config.Load()

	// Create container just for logger
	container := app.NewContainer(cfg)
	logger := container.Logger()

	logger.Info("running database migrations",
		slog.String("driver", cfg.StoreDriver),
	)

	// Determine migration path based on driver
	var migrationsPath string
	switch cfg.StoreDriver {
	case "postgres":
		migrationsPath = "file://migrations/postgresql"
	case "mysql":
		migrationsPath = "file://migrations/mysql"
	default:
		return fmt.Errorf("store driver %q does not use migrations", cfg.StoreDriver)
	}

	m, err := migrate.New(migrationsPath, cfg.DBConnectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
