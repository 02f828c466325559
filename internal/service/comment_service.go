package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/OutOfContext/MyTicketSystem/internal/api/dto"
	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/events"
	"github.com/OutOfContext/MyTicketSystem/internal/repository"
)

// CommentInput is the content of a new comment.
type CommentInput struct {
	Content string
}

// CommentService manages comments scoped to a ticket.
type CommentService struct {
	comments repository.CommentRepository
	tickets  repository.TicketRepository
	events   events.Dispatcher
	logger   *zap.Logger
}

// CommentDependencies bundles repositories for comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	TicketRepo  repository.TicketRepository
	Events      events.Dispatcher
	Logger      *zap.Logger
}

func NewCommentService(deps CommentDependencies) *CommentService {
	dispatcher := deps.Events
	if dispatcher == nil {
		dispatcher = events.NewNopDispatcher()
	}
	return &CommentService{comments: deps.CommentRepo, tickets: deps.TicketRepo, events: dispatcher, logger: deps.Logger}
}

// AddComment stores the content verbatim under ticketID, authored by user.
func (s *CommentService) AddComment(ctx context.Context, ticketID int64, input CommentInput, user *domain.User) (dto.CommentResponse, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return dto.CommentResponse{}, notFound(err, "Ticket", ticketID)
	}

	comment := &domain.Comment{
		TicketID:  ticketID,
		UserID:    user.ID,
		Author:    user,
		Content:   input.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return dto.CommentResponse{}, err
	}

	s.logger.Info("comment added", zap.Int64("ticket_id", ticketID), zap.Int64("comment_id", comment.ID), zap.Int64("user_id", user.ID))
	s.events.Publish(ctx, events.NewEvent(events.EventCommentAdded, ticketID, user.ID, events.CommentPayload{
		CommentID:   comment.ID,
		BodyPreview: events.Preview(comment.Content, 80),
	}))
	return dto.NewCommentResponse(comment), nil
}

// GetCommentsByTicket lists comments oldest first.
func (s *CommentService) GetCommentsByTicket(ctx context.Context, ticketID int64) ([]dto.CommentResponse, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, notFound(err, "Ticket", ticketID)
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return dto.NewCommentResponses(comments), nil
}

// DeleteComment removes comment id regardless of its ticket or author.
func (s *CommentService) DeleteComment(ctx context.Context, id int64, currentUser *domain.User) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return notFound(err, "Comment", id)
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return notFound(err, "Comment", id)
	}
	s.logger.Info("comment deleted", zap.Int64("comment_id", id))
	s.events.Publish(ctx, events.NewEvent(events.EventCommentDeleted, comment.TicketID, actorID(currentUser), events.CommentPayload{
		CommentID: id,
	}))
	return nil
}
