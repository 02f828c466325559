package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OutOfContext/MyTicketSystem/internal/service"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo accounts",
		Long:  `Create the admin, support and user demo accounts when the user table is empty.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := initEnv()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			db, err := openStore(cmd.Context(), cfg, logger, cfg.Database.RunMigrations)
			if err != nil {
				return err
			}
			defer db.close()

			users := service.NewUserService(db.users, cfg.Auth.BcryptCost, logger)
			created, err := service.NewSeeder(db.users, users, logger).SeedDefaultUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to seed default users: %w", err)
			}
			logger.Info("seed finished", zap.Int("created", created))
			return nil
		},
	}
}
