package repository

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/persistence"
)

func newPostgresPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is required for postgres repository tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)

	migrator, err := persistence.NewMigrator(pool, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up(ctx))

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, "TRUNCATE TABLE comments, tickets, users RESTART IDENTITY CASCADE")
		_ = migrator.Close()
		pool.Close()
	})
	return pool
}

func newPgUser(t *testing.T, repo UserRepository, role domain.Role) *domain.User {
	t.Helper()
	name := "u_" + uuid.NewString()[:8]
	user := &domain.User{
		Username:     name,
		PasswordHash: "hash",
		Email:        name + "@example.com",
		FullName:     "Test " + name,
		Role:         role,
		Enabled:      true,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestPostgres_TicketLifecycle(t *testing.T) {
	pool := newPostgresPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	tickets := NewTicketRepository(pool)
	comments := NewCommentRepository(pool)

	alice := newPgUser(t, users, domain.RoleUser)
	agent := newPgUser(t, users, domain.RoleSupport)

	ticket := &domain.Ticket{
		Title:        "Printer broken",
		Description:  "Paper jam on floor 2",
		Status:       domain.TicketStatusOpen,
		Priority:     domain.TicketPriorityHigh,
		CreatedByID:  alice.ID,
		AssignedToID: &agent.ID,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, tickets.Create(ctx, ticket))

	require.NoError(t, comments.Create(ctx, &domain.Comment{
		TicketID: ticket.ID, UserID: alice.ID, Content: "checking now", CreatedAt: time.Now().UTC(),
	}))

	loaded, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Username, loaded.CreatedBy.Username)
	require.NotNil(t, loaded.AssignedTo)
	assert.Equal(t, agent.ID, loaded.AssignedTo.ID)
	assert.Equal(t, 1, loaded.CommentCount)
	assert.Nil(t, loaded.UpdatedAt)

	found, err := tickets.List(ctx, domain.TicketFilter{}.Contains("PRINTER", domain.FieldTitle, domain.FieldDescription))
	require.NoError(t, err)
	require.Len(t, found, 1)

	dup := &domain.User{Username: alice.Username, Email: "other@example.com", Role: domain.RoleUser, CreatedAt: time.Now()}
	assert.True(t, errors.Is(users.Create(ctx, dup), ErrDuplicate))

	require.NoError(t, users.Delete(ctx, agent.ID))
	loaded, err = tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.AssignedToID)

	require.NoError(t, tickets.Delete(ctx, ticket.ID))
	remaining, err := comments.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.ErrorIs(t, tickets.Delete(ctx, ticket.ID), ErrNotFound)
}

func TestPostgres_UserFullNameLength(t *testing.T) {
	pool := newPostgresPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)

	newUser := func(name, fullName string) *domain.User {
		return &domain.User{
			Username:     name,
			PasswordHash: "hash",
			Email:        name + "@example.com",
			FullName:     fullName,
			Role:         domain.RoleUser,
			Enabled:      true,
			CreatedAt:    time.Now().UTC(),
		}
	}

	require.NoError(t, users.Create(ctx, newUser("longname", strings.Repeat("n", 255))))
	loaded, err := users.GetByUsername(ctx, "longname")
	require.NoError(t, err)
	assert.Len(t, loaded.FullName, 255)

	assert.ErrorIs(t, users.Create(ctx, newUser("toolong", strings.Repeat("n", 256))), ErrValueTooLong)
}
