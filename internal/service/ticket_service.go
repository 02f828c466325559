package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OutOfContext/MyTicketSystem/internal/api/dto"
	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/events"
	"github.com/OutOfContext/MyTicketSystem/internal/repository"
	apperrors "github.com/OutOfContext/MyTicketSystem/pkg/util"
)

// TicketInput describes the editable fields of a ticket.
type TicketInput struct {
	Title        string
	Description  string
	Priority     domain.TicketPriority
	AssignedToID *int64
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
	events  events.Dispatcher
	logger  *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Events     events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service. Events are dropped when no
// dispatcher is given.
func NewTicketService(deps TicketDependencies) *TicketService {
	dispatcher := deps.Events
	if dispatcher == nil {
		dispatcher = events.NewNopDispatcher()
	}
	return &TicketService{
		tickets: deps.TicketRepo,
		users:   deps.UserRepo,
		events:  dispatcher,
		logger:  deps.Logger,
	}
}

// CreateTicket opens a ticket owned by currentUser. The status always starts
// as OPEN.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketInput, currentUser *domain.User) (dto.TicketResponse, error) {
	priority, err := normalizePriority(input.Priority)
	if err != nil {
		return dto.TicketResponse{}, err
	}

	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		CreatedByID: currentUser.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if input.AssignedToID != nil {
		if err := s.ensureUser(ctx, *input.AssignedToID); err != nil {
			return dto.TicketResponse{}, err
		}
		ticket.AssignedToID = input.AssignedToID
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return dto.TicketResponse{}, err
	}
	s.logger.Info("ticket created", zap.Int64("ticket_id", ticket.ID), zap.Int64("created_by", currentUser.ID))
	s.events.Publish(ctx, events.NewEvent(events.EventTicketCreated, ticket.ID, currentUser.ID, events.TicketCreatedPayload{
		Title:    ticket.Title,
		Priority: ticket.Priority,
	}))
	if ticket.AssignedToID != nil {
		s.events.Publish(ctx, events.NewEvent(events.EventTicketAssigned, ticket.ID, currentUser.ID, events.TicketAssignedPayload{
			AssigneeID: *ticket.AssignedToID,
		}))
	}
	return s.reload(ctx, ticket.ID)
}

// UpdateTicket overwrites title, description and priority. The assignee only
// changes when AssignedToID is supplied; creator and status never change.
func (s *TicketService) UpdateTicket(ctx context.Context, id int64, input TicketInput, currentUser *domain.User) (dto.TicketResponse, error) {
	priority, err := normalizePriority(input.Priority)
	if err != nil {
		return dto.TicketResponse{}, err
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return dto.TicketResponse{}, notFound(err, "Ticket", id)
	}

	previousAssignee := ticket.AssignedToID
	if input.AssignedToID != nil {
		if err := s.ensureUser(ctx, *input.AssignedToID); err != nil {
			return dto.TicketResponse{}, err
		}
		ticket.AssignedToID = input.AssignedToID
	}
	ticket.Title = strings.TrimSpace(input.Title)
	ticket.Description = strings.TrimSpace(input.Description)
	ticket.Priority = priority
	touch(ticket)

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return dto.TicketResponse{}, notFound(err, "Ticket", id)
	}
	s.logger.Info("ticket updated", zap.Int64("ticket_id", id), zap.Int64("updated_by", currentUser.ID))
	s.events.Publish(ctx, events.NewEvent(events.EventTicketUpdated, id, currentUser.ID, nil))
	if input.AssignedToID != nil && (previousAssignee == nil || *previousAssignee != *input.AssignedToID) {
		s.events.Publish(ctx, events.NewEvent(events.EventTicketAssigned, id, currentUser.ID, events.TicketAssignedPayload{
			PreviousAssigneeID: previousAssignee,
			AssigneeID:         *input.AssignedToID,
		}))
	}
	return s.reload(ctx, id)
}

// UpdateTicketStatus sets any status; there is no transition graph.
func (s *TicketService) UpdateTicketStatus(ctx context.Context, id int64, status domain.TicketStatus, currentUser *domain.User) (dto.TicketResponse, error) {
	if !status.Valid() {
		return dto.TicketResponse{}, apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return dto.TicketResponse{}, notFound(err, "Ticket", id)
	}

	previous := ticket.Status
	ticket.Status = status
	touch(ticket)
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return dto.TicketResponse{}, notFound(err, "Ticket", id)
	}

	s.logger.Info("ticket status changed",
		zap.Int64("ticket_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))
	s.events.Publish(ctx, events.NewEvent(events.EventTicketStatusChanged, id, actorID(currentUser), events.TicketStatusChangedPayload{
		OldStatus: previous,
		NewStatus: status,
	}))
	return s.reload(ctx, id)
}

func (s *TicketService) GetTicketByID(ctx context.Context, id int64) (dto.TicketResponse, error) {
	return s.reload(ctx, id)
}

func (s *TicketService) GetAllTickets(ctx context.Context) ([]dto.TicketResponse, error) {
	return s.list(ctx, domain.TicketFilter{})
}

// SearchTickets ANDs the supplied criteria: a case-insensitive substring of
// title or description, an exact status and an exact priority. Absent criteria
// impose no constraint.
func (s *TicketService) SearchTickets(ctx context.Context, search string, status *domain.TicketStatus, priority *domain.TicketPriority) ([]dto.TicketResponse, error) {
	return s.list(ctx, BuildSearchFilter(search, status, priority))
}

// BuildSearchFilter composes the search criteria into a ticket filter.
func BuildSearchFilter(search string, status *domain.TicketStatus, priority *domain.TicketPriority) domain.TicketFilter {
	filter := domain.TicketFilter{}
	if search != "" {
		filter = filter.Contains(search, domain.FieldTitle, domain.FieldDescription)
	}
	if status != nil {
		filter = filter.Where(domain.FieldStatus, *status)
	}
	if priority != nil {
		filter = filter.Where(domain.FieldPriority, *priority)
	}
	return filter
}

func (s *TicketService) GetMyTickets(ctx context.Context, user *domain.User) ([]dto.TicketResponse, error) {
	return s.list(ctx, domain.TicketFilter{}.Where(domain.FieldCreatedBy, user.ID))
}

func (s *TicketService) GetAssignedTickets(ctx context.Context, user *domain.User) ([]dto.TicketResponse, error) {
	return s.list(ctx, domain.TicketFilter{}.Where(domain.FieldAssignedTo, user.ID))
}

// DeleteTicket removes the ticket and all of its comments.
func (s *TicketService) DeleteTicket(ctx context.Context, id int64, currentUser *domain.User) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		return notFound(err, "Ticket", id)
	}
	s.logger.Info("ticket deleted", zap.Int64("ticket_id", id))
	s.events.Publish(ctx, events.NewEvent(events.EventTicketDeleted, id, actorID(currentUser), nil))
	return nil
}

func (s *TicketService) list(ctx context.Context, filter domain.TicketFilter) ([]dto.TicketResponse, error) {
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewTicketResponses(tickets), nil
}

func (s *TicketService) reload(ctx context.Context, id int64) (dto.TicketResponse, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return dto.TicketResponse{}, notFound(err, "Ticket", id)
	}
	return dto.NewTicketResponse(ticket), nil
}

func (s *TicketService) ensureUser(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return notFound(err, "User", id)
	}
	return nil
}

func normalizePriority(p domain.TicketPriority) (domain.TicketPriority, error) {
	if p == "" {
		return domain.TicketPriorityMedium, nil
	}
	priority, ok := domain.ParseTicketPriority(string(p))
	if !ok {
		return "", apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(p)})
	}
	return priority, nil
}

// touch stamps updatedAt, keeping it strictly after the previous value.
func touch(ticket *domain.Ticket) {
	now := time.Now().UTC()
	if ticket.UpdatedAt != nil && !now.After(*ticket.UpdatedAt) {
		now = ticket.UpdatedAt.Add(time.Microsecond)
	}
	ticket.UpdatedAt = &now
}
