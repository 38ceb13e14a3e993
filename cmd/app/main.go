// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cartkeeper/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "cartkeeper",
		Usage:   "Abandoned cart recovery service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations for the SQL store backends",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "sweep",
				Usage: "Run a single reminder sweep over all active cart records",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunSweep(ctx, cmd.String("format"))
				},
			},
			{
				Name:  "clean-records",
				Usage: "Delete completed/converted cart records older than specified days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "days",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Delete terminal records older than this many days",
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Value:   false,
						Usage:   "Show how many records would be deleted without deleting",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCleanRecords(
						ctx,
						cmd.Int("days"),
						cmd.Bool("dry-run"),
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
