package dto

import (
	"time"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
)

// TicketRequest is the body of ticket create and update calls. Any status
// field in the body is ignored.
type TicketRequest struct {
	Title        string `json:"title" validate:"required,notblank,max=255"`
	Description  string `json:"description" validate:"required,notblank,max=2000"`
	Priority     string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH CRITICAL low medium high critical"`
	AssignedToID *int64 `json:"assignedToId" validate:"omitempty,gt=0"`
}

// TicketResponse is the full public view of a ticket.
type TicketResponse struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	CreatedBy    *UserSummary          `json:"createdBy"`
	AssignedTo   *UserSummary          `json:"assignedTo"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    *time.Time            `json:"updatedAt"`
	CommentCount int                   `json:"commentCount"`
}

// NewTicketResponse maps a ticket. AssignedTo stays null for unassigned tickets.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		CommentCount: t.CommentCount,
	}
	if t.CreatedBy != nil {
		summary := NewUserSummary(t.CreatedBy)
		resp.CreatedBy = &summary
	}
	if t.AssignedTo != nil {
		summary := NewUserSummary(t.AssignedTo)
		resp.AssignedTo = &summary
	}
	return resp
}

// NewTicketResponses maps a list of tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}
