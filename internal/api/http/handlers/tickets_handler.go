package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/OutOfContext/MyTicketSystem/internal/api/dto"
	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/service"
	apperrors "github.com/OutOfContext/MyTicketSystem/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	input, err := parseTicketRequest(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), input, user)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticket)
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.GetAllTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tickets)
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicketByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// UpdateTicket PUT /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	input, err := parseTicketRequest(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), id, input, user)
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// UpdateStatus PATCH /api/tickets/:id/status?status=.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	status, ok := domain.ParseTicketStatus(c.Query("status"))
	if !ok {
		return apperrors.NewValidationError("status must be one of [OPEN IN_PROGRESS RESOLVED CLOSED]",
			map[string]any{"status": c.Query("status")})
	}
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.UpdateTicketStatus(c.UserContext(), id, status, user)
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTicket(c.UserContext(), id, user); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SearchTickets GET /api/tickets/search?search=&status=&priority=.
func (h *TicketsHandler) SearchTickets(c *fiber.Ctx) error {
	var (
		status   *domain.TicketStatus
		priority *domain.TicketPriority
	)
	if raw := c.Query("status"); raw != "" {
		parsed, ok := domain.ParseTicketStatus(raw)
		if !ok {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": raw})
		}
		status = &parsed
	}
	if raw := c.Query("priority"); raw != "" {
		parsed, ok := domain.ParseTicketPriority(raw)
		if !ok {
			return apperrors.NewValidationError("invalid priority", map[string]any{"priority": raw})
		}
		priority = &parsed
	}

	tickets, err := h.service.SearchTickets(c.UserContext(), c.Query("search"), status, priority)
	if err != nil {
		return err
	}
	return c.JSON(tickets)
}

// MyTickets GET /api/tickets/my-tickets.
func (h *TicketsHandler) MyTickets(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.GetMyTickets(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(tickets)
}

// AssignedToMe GET /api/tickets/assigned-to-me.
func (h *TicketsHandler) AssignedToMe(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.GetAssignedTickets(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(tickets)
}

func parseTicketRequest(c *fiber.Ctx) (service.TicketInput, error) {
	var req dto.TicketRequest
	if err := parseBody(c, &req); err != nil {
		return service.TicketInput{}, err
	}
	priority, _ := domain.ParseTicketPriority(req.Priority)
	return service.TicketInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     priority,
		AssignedToID: req.AssignedToID,
	}, nil
}
