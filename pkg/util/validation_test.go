package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,notblank,min=3"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required,notblank"`
	Priority string `json:"priority" validate:"omitempty,oneof=LOW HIGH"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(signup{Username: "alice", Email: "a@x.io", FullName: "Alice"}))

	err := ValidateStruct(signup{Username: "al", Email: "nope", FullName: "   ", Priority: "MID"})
	require.ErrorIs(t, err, ErrValidation)

	derr := ToDomainError(err)
	fields, ok := derr.Details["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "username must be at least 3 characters long", fields["username"])
	assert.Equal(t, "email must be a valid email address", fields["email"])
	assert.Equal(t, "fullName is required", fields["fullName"])
	assert.Equal(t, "priority must be one of [LOW HIGH]", fields["priority"])
}

func TestValidateStruct_MaxBytes(t *testing.T) {
	type credentials struct {
		Password string `json:"password" validate:"required,maxbytes=72"`
	}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"ascii at limit", strings.Repeat("a", 72), false},
		{"ascii over limit", strings.Repeat("a", 73), true},
		{"multibyte under rune limit", strings.Repeat("€", 30), true},
		{"multibyte within limit", strings.Repeat("€", 24), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(credentials{Password: tt.password})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			fields := ToDomainError(err).Details["fields"].(map[string]any)
			assert.Equal(t, "password must be at most 72 bytes long", fields["password"])
		})
	}
}
