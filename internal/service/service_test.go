package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/OutOfContext/MyTicketSystem/internal/auth"
	"github.com/OutOfContext/MyTicketSystem/internal/config"
	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/persistence"
	"github.com/OutOfContext/MyTicketSystem/internal/repository"
	"github.com/OutOfContext/MyTicketSystem/internal/repository/gormrepo"
)

type testEnv struct {
	users    repository.UserRepository
	tickets  repository.TicketRepository
	comments repository.CommentRepository

	userSvc    *UserService
	ticketSvc  *TicketService
	commentSvc *CommentService
	authSvc    *AuthService
	seeder     *Seeder
	redis      *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	store, err := persistence.NewSQLite(":memory:", logger)
	require.NoError(t, err)
	require.NoError(t, gormrepo.AutoMigrate(store.DB))
	t.Cleanup(store.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := &testEnv{
		users:    gormrepo.NewUserRepository(store.DB),
		tickets:  gormrepo.NewTicketRepository(store.DB),
		comments: gormrepo.NewCommentRepository(store.DB),
		redis:    mr,
	}
	env.userSvc = NewUserService(env.users, bcrypt.MinCost, logger)
	env.ticketSvc = NewTicketService(TicketDependencies{TicketRepo: env.tickets, UserRepo: env.users, Logger: logger})
	env.commentSvc = NewCommentService(CommentDependencies{CommentRepo: env.comments, TicketRepo: env.tickets, Logger: logger})
	env.authSvc = NewAuthService(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60}, AuthDependencies{
		UserRepo:    env.users,
		UserService: env.userSvc,
		Denylist:    auth.NewTokenDenylist(client),
		Limiter:     auth.NewLoginLimiter(client, 5),
		Logger:      logger,
	})
	env.seeder = NewSeeder(env.users, env.userSvc, logger)
	return env
}

func (e *testEnv) createUser(t *testing.T, username string, role domain.Role) *domain.User {
	t.Helper()
	user, err := e.userSvc.CreateUser(context.Background(), RegistrationInput{
		Username: username,
		Password: "pw-" + username,
		Email:    username + "@example.com",
		FullName: "Test " + username,
	}, role)
	require.NoError(t, err)
	return user
}

func (e *testEnv) createTicket(t *testing.T, title, description string, priority domain.TicketPriority, creator *domain.User, assignee *int64) int64 {
	t.Helper()
	resp, err := e.ticketSvc.CreateTicket(context.Background(), TicketInput{
		Title:        title,
		Description:  description,
		Priority:     priority,
		AssignedToID: assignee,
	}, creator)
	require.NoError(t, err)
	return resp.ID
}

func waitTick() {
	time.Sleep(2 * time.Millisecond)
}
