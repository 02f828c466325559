package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/OutOfContext/MyTicketSystem/internal/api/dto"
	"github.com/OutOfContext/MyTicketSystem/internal/auth"
	"github.com/OutOfContext/MyTicketSystem/internal/config"
	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/repository"
	apperrors "github.com/OutOfContext/MyTicketSystem/pkg/util"
)

const invalidCredentials = "Invalid username or password"

// AuthService coordinates registration, login and token checks.
type AuthService struct {
	users    repository.UserRepository
	accounts *UserService
	tokens   *auth.TokenManager
	denylist auth.TokenDenylist
	limiter  auth.LoginLimiter
	logger   *zap.Logger
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	UserService *UserService
	Denylist    auth.TokenDenylist
	Limiter     auth.LoginLimiter
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:    deps.UserRepo,
		accounts: deps.UserService,
		tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL()),
		denylist: deps.Denylist,
		limiter:  deps.Limiter,
		logger:   deps.Logger,
	}
}

// Login verifies credentials and issues a bearer token. Attempts are throttled
// per username and client address.
func (s *AuthService) Login(ctx context.Context, username, password, clientIP string) (dto.AuthResponse, error) {
	username = strings.TrimSpace(username)

	allowed, err := s.limiter.Allow(ctx, loginLimiterKey(username, clientIP))
	if err != nil {
		s.logger.Warn("login limiter unavailable", zap.Error(err))
	} else if !allowed {
		return dto.AuthResponse{}, apperrors.NewTooManyRequests("Too many login attempts, try again later")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.AuthResponse{}, apperrors.NewUnauthorized(invalidCredentials)
		}
		return dto.AuthResponse{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return dto.AuthResponse{}, apperrors.NewUnauthorized(invalidCredentials)
	}
	if !user.Enabled {
		return dto.AuthResponse{}, apperrors.NewUnauthorized("Account is disabled")
	}

	token, _, err := s.tokens.GenerateToken(user)
	if err != nil {
		return dto.AuthResponse{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return dto.NewAuthResponse(token, user), nil
}

func loginLimiterKey(username, clientIP string) string {
	key := strings.ToLower(username)
	if clientIP != "" {
		key += "|" + clientIP
	}
	return key
}

// Register creates a USER account after checking username then e-mail.
func (s *AuthService) Register(ctx context.Context, input RegistrationInput) error {
	taken, err := s.accounts.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.NewRegistrationConflict("Username is already taken!", "username")
	}

	inUse, err := s.accounts.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if inUse {
		return apperrors.NewRegistrationConflict("Email is already in use!", "email")
	}

	_, err = s.accounts.CreateUser(ctx, input, domain.RoleUser)
	return err
}

// Logout revokes the token identified by claims until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.logger.Info("user logged out", zap.Int64("user_id", claims.UserID))
	return nil
}

// Authenticate resolves a bearer token to its enabled, current user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, *auth.Claims, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, nil, apperrors.NewUnauthorized("Invalid or expired token")
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("token denylist unavailable", zap.Error(err))
	} else if revoked {
		return nil, nil, apperrors.NewUnauthorized("Token has been revoked")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NewUnauthorized("User no longer exists")
		}
		return nil, nil, err
	}
	if !user.Enabled {
		return nil, nil, apperrors.NewUnauthorized("Account is disabled")
	}
	return user, claims, nil
}
