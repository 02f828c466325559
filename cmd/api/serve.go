package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/OutOfContext/MyTicketSystem/internal/api/http"
	"github.com/OutOfContext/MyTicketSystem/internal/api/http/handlers"
	"github.com/OutOfContext/MyTicketSystem/internal/auth"
	"github.com/OutOfContext/MyTicketSystem/internal/events"
	"github.com/OutOfContext/MyTicketSystem/internal/observability"
	"github.com/OutOfContext/MyTicketSystem/internal/persistence"
	"github.com/OutOfContext/MyTicketSystem/internal/service"
	"github.com/OutOfContext/MyTicketSystem/internal/worker"
)

const shutdownTimeout = 10 * time.Second

var skipMigrations bool

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Connect to the configured stores, seed demo accounts into an empty database and serve the REST API.`,
		RunE:  runServe,
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply pending Postgres migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := initEnv()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	db, err := openStore(ctx, cfg, logger, cfg.Database.RunMigrations && !skipMigrations)
	if err != nil {
		return err
	}
	defer db.close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()
	// A nil *Redis must not reach the handler as a non-nil Pinger.
	var redisPinger handlers.Pinger
	if redis != nil {
		redisPinger = redis
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartEventWorker(dispatcher, metrics, logger)

	userService := service.NewUserService(db.users, cfg.Auth.BcryptCost, logger)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: db.tickets,
		UserRepo:   db.users,
		Events:     dispatcher,
		Logger:     logger,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: db.comments,
		TicketRepo:  db.tickets,
		Events:      dispatcher,
		Logger:      logger,
	})
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    db.users,
		UserService: userService,
		Denylist:    auth.NewTokenDenylist(redis.ClientHandle()),
		Limiter:     auth.NewLoginLimiter(redis.ClientHandle(), cfg.Auth.LoginAttemptsPerMin),
		Logger:      logger,
	})

	if cfg.Seed.Enabled {
		if _, err := service.NewSeeder(db.users, userService, logger).SeedDefaultUsers(ctx); err != nil {
			return fmt.Errorf("failed to seed default users: %w", err)
		}
	}

	authorizer, err := auth.NewAuthorizer()
	if err != nil {
		return err
	}

	app := httptransport.NewApp(cfg.App, logger, metrics, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, db, redisPinger),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: auth.NewAuthMiddleware(authService),
		Authorizer:     authorizer,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("env", cfg.App.Env),
			zap.String("db_driver", cfg.Database.Driver))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("fiber listen: %w", err)
		}
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	return nil
}
