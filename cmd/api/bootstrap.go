package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/OutOfContext/MyTicketSystem/internal/config"
	"github.com/OutOfContext/MyTicketSystem/internal/observability"
	"github.com/OutOfContext/MyTicketSystem/internal/persistence"
	"github.com/OutOfContext/MyTicketSystem/internal/repository"
	"github.com/OutOfContext/MyTicketSystem/internal/repository/gormrepo"
)

// store is the repository set backed by the configured driver.
type store struct {
	users    repository.UserRepository
	tickets  repository.TicketRepository
	comments repository.CommentRepository

	ping  func(ctx context.Context) error
	close func()
}

func (s *store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func initEnv() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, logger, nil
}

// openStore connects to the configured database and brings its schema up to
// date: goose migrations for Postgres when enabled, AutoMigrate for SQLite.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (*store, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := persistence.NewSQLite(cfg.Database.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		if err := gormrepo.AutoMigrate(db.DB); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
		return &store{
			users:    gormrepo.NewUserRepository(db.DB),
			tickets:  gormrepo.NewTicketRepository(db.DB),
			comments: gormrepo.NewCommentRepository(db.DB),
			ping:     db.Ping,
			close:    db.Close,
		}, nil

	default:
		pg, err := persistence.NewPostgres(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect postgres: %w", err)
		}
		if migrate {
			if err := migrateUp(ctx, pg.Pool, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &store{
			users:    repository.NewUserRepository(pg.Pool),
			tickets:  repository.NewTicketRepository(pg.Pool),
			comments: repository.NewCommentRepository(pg.Pool),
			ping:     pg.Ping,
			close:    pg.Close,
		}, nil
	}
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	migrator, err := persistence.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck
	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
