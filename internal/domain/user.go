package domain

import "time"

// User is an account that can authenticate, open tickets and comment on them.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	FullName     string
	Role         Role
	Enabled      bool
	CreatedAt    time.Time
}
