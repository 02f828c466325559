package dto

import (
	"time"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
)

// CommentRequest is the body of the add-comment call.
type CommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}

// CommentResponse is the public view of a comment and its author.
type CommentResponse struct {
	ID        int64        `json:"id"`
	Content   string       `json:"content"`
	User      *UserSummary `json:"user"`
	CreatedAt time.Time    `json:"createdAt"`
}

func NewCommentResponse(c *domain.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
	if c.Author != nil {
		summary := NewUserSummary(c.Author)
		resp.User = &summary
	}
	return resp
}

func NewCommentResponses(comments []domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}
