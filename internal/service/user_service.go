package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OutOfContext/MyTicketSystem/internal/api/dto"
	"github.com/OutOfContext/MyTicketSystem/internal/auth"
	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/repository"
	apperrors "github.com/OutOfContext/MyTicketSystem/pkg/util"
)

// RegistrationInput describes a new account.
type RegistrationInput struct {
	Username string
	Password string
	Email    string
	FullName string
}

// UserService owns the user directory.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int, logger *zap.Logger) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost, logger: logger}
}

// CreateUser stores an enabled account with role. Uniqueness is expected to be
// checked by the caller; a duplicate that slips through surfaces as Conflict.
func (s *UserService) CreateUser(ctx context.Context, input RegistrationInput, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": string(role)})
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("password must be at most %d bytes long", auth.MaxPasswordBytes),
			map[string]any{"fields": map[string]any{"password": "too long"}})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: hash,
		Email:        strings.TrimSpace(input.Email),
		FullName:     strings.TrimSpace(input.FullName),
		Role:         role,
		Enabled:      true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("Username or email already in use", nil)
		}
		if errors.Is(err, repository.ErrValueTooLong) {
			return nil, apperrors.NewValidationError("a field exceeds its maximum length", nil)
		}
		return nil, err
	}

	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("username", user.Username), zap.String("role", role.String()))
	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]dto.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewUserSummaries(users), nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (dto.UserSummary, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return dto.UserSummary{}, notFound(err, "User", id)
	}
	return dto.NewUserSummary(user), nil
}

// UpdateUserRole overwrites the role of user id.
func (s *UserService) UpdateUserRole(ctx context.Context, id int64, role domain.Role) (dto.UserSummary, error) {
	if !role.Valid() {
		return dto.UserSummary{}, apperrors.NewValidationError("invalid role", map[string]any{"role": string(role)})
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return dto.UserSummary{}, notFound(err, "User", id)
	}

	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return dto.UserSummary{}, notFound(err, "User", id)
	}

	s.logger.Info("user role updated", zap.Int64("user_id", id), zap.String("role", role.String()))
	return dto.NewUserSummary(user), nil
}

// DeleteUser removes user id. Tickets assigned to the user become unassigned;
// users that still created tickets or wrote comments cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return notFound(err, "User", id)
	}

	refs, err := s.users.References(ctx, id)
	if err != nil {
		return err
	}
	if refs.CreatedTickets > 0 || refs.Comments > 0 {
		return apperrors.NewConflict("User still owns tickets or comments", map[string]any{
			"createdTickets": refs.CreatedTickets,
			"comments":       refs.Comments,
		})
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return apperrors.NewConflict("User still owns tickets or comments", nil)
		}
		return notFound(err, "User", id)
	}

	s.logger.Info("user deleted", zap.Int64("user_id", id), zap.Int64("unassigned_tickets", refs.AssignedTickets))
	return nil
}

func (s *UserService) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.users.ExistsByUsername(ctx, strings.TrimSpace(username))
}

func (s *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.users.ExistsByEmail(ctx, strings.TrimSpace(email))
}
