package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
)

func TestNewUserSummary_OmitsPassword(t *testing.T) {
	user := &domain.User{ID: 3, Username: "alice", PasswordHash: "secret-hash", Email: "a@x.io", FullName: "Alice", Role: domain.RoleSupport}

	raw, err := json.Marshal(NewUserSummary(user))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"username":"alice","email":"a@x.io","fullName":"Alice","role":"SUPPORT"}`, string(raw))
	assert.NotContains(t, string(raw), "secret-hash")
}

func TestNewTicketResponse(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{
		ID:           9,
		Title:        "Printer broken",
		Description:  "Paper jam",
		Status:       domain.TicketStatusOpen,
		Priority:     domain.TicketPriorityHigh,
		CreatedByID:  3,
		CreatedBy:    &domain.User{ID: 3, Username: "alice", Role: domain.RoleUser},
		CreatedAt:    created,
		CommentCount: 2,
	}

	resp := NewTicketResponse(ticket)
	assert.Equal(t, int64(9), resp.ID)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, "alice", resp.CreatedBy.Username)
	assert.Nil(t, resp.AssignedTo)
	assert.Equal(t, 2, resp.CommentCount)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "assignedTo")
	assert.Nil(t, decoded["assignedTo"])
	assert.Nil(t, decoded["updatedAt"])
	assert.Equal(t, "HIGH", decoded["priority"])
}

func TestNewCommentResponses(t *testing.T) {
	comments := []domain.Comment{
		{ID: 1, Content: "first", Author: &domain.User{ID: 3, Username: "alice", Role: domain.RoleUser}},
		{ID: 2, Content: "second"},
	}

	out := NewCommentResponses(comments)
	require.Len(t, out, 2)
	assert.Equal(t, "alice", out[0].User.Username)
	assert.Nil(t, out[1].User)
	assert.Empty(t, NewCommentResponses(nil))
}
