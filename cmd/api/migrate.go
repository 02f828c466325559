package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OutOfContext/MyTicketSystem/internal/config"
	"github.com/OutOfContext/MyTicketSystem/internal/persistence"
)

var steps int

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back or inspect the Postgres schema migrations. SQLite schemas are created on startup.`,
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  withMigrator(func(ctx context.Context, m *persistence.Migrator) error { return m.Down(ctx, steps) }),
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Run all pending migrations",
			RunE:  withMigrator(func(ctx context.Context, m *persistence.Migrator) error { return m.Up(ctx) }),
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE:  withMigrator(func(ctx context.Context, m *persistence.Migrator) error { return m.Status(ctx) }),
		},
	)

	return cmd
}

func withMigrator(run func(ctx context.Context, m *persistence.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := initEnv()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		if cfg.Database.Driver != config.DriverPostgres {
			return fmt.Errorf("migrations require DB_DRIVER=%s, got %q", config.DriverPostgres, cfg.Database.Driver)
		}

		ctx := cmd.Context()
		pg, err := persistence.NewPostgres(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to connect postgres: %w", err)
		}
		defer pg.Close()

		migrator, err := persistence.NewMigrator(pg.Pool, logger)
		if err != nil {
			return err
		}
		defer migrator.Close() //nolint:errcheck

		logger.Info("running migration command", zap.String("command", cmd.Name()))
		if err := run(ctx, migrator); err != nil {
			logger.Error("migration command failed", zap.Error(err))
			return err
		}
		return nil
	}
}
