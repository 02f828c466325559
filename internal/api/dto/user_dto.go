package dto

import (
	"github.com/OutOfContext/MyTicketSystem/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=50"`
	Password string `json:"password" validate:"required,notblank,min=3,maxbytes=72"`
	Email    string `json:"email" validate:"required,email,max=255"`
	FullName string `json:"fullName" validate:"required,notblank,max=255"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary is the public view of a user. It never carries the password.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// NewUserSummary maps a user to its public view.
func NewUserSummary(u *domain.User) UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role.String(),
	}
}

// NewUserSummaries maps a list of users.
func NewUserSummaries(users []domain.User) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for i := range users {
		out = append(out, NewUserSummary(&users[i]))
	}
	return out
}

// NewAuthResponse builds the login response for user.
func NewAuthResponse(token string, u *domain.User) AuthResponse {
	return AuthResponse{
		Token:    token,
		Type:     "Bearer",
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role.String(),
	}
}
