package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/repository"
)

type seedAccount struct {
	input RegistrationInput
	role  domain.Role
}

var defaultAccounts = []seedAccount{
	{RegistrationInput{Username: "admin", Password: "admin123", Email: "admin@ticketsystem.com", FullName: "System Administrator"}, domain.RoleAdmin},
	{RegistrationInput{Username: "support", Password: "support123", Email: "support@ticketsystem.com", FullName: "Support Agent"}, domain.RoleSupport},
	{RegistrationInput{Username: "user", Password: "user123", Email: "user@ticketsystem.com", FullName: "Regular User"}, domain.RoleUser},
}

// Seeder creates the demo accounts.
type Seeder struct {
	users    repository.UserRepository
	accounts *UserService
	logger   *zap.Logger
}

func NewSeeder(users repository.UserRepository, accounts *UserService, logger *zap.Logger) *Seeder {
	return &Seeder{users: users, accounts: accounts, logger: logger}
}

// SeedDefaultUsers creates admin, support and user accounts when the user
// store is empty and returns how many were created.
func (s *Seeder) SeedDefaultUsers(ctx context.Context) (int, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Debug("user store not empty, skipping seed", zap.Int64("users", count))
		return 0, nil
	}

	for i, account := range defaultAccounts {
		if _, err := s.accounts.CreateUser(ctx, account.input, account.role); err != nil {
			return i, err
		}
	}
	s.logger.Info("default users created",
		zap.Strings("usernames", []string{"admin", "support", "user"}))
	return len(defaultAccounts), nil
}
