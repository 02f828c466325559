package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/OutOfContext/MyTicketSystem/internal/api/dto"
	"github.com/OutOfContext/MyTicketSystem/internal/service"
)

// CommentsHandler manages comments nested under a ticket.
type CommentsHandler struct {
	service *service.CommentService
}

func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{service: commentService}
}

// AddComment POST /api/tickets/:ticketId/comments.
func (h *CommentsHandler) AddComment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	ticketID, err := parseID(c, "ticketId")
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	comment, err := h.service.AddComment(c.UserContext(), ticketID, service.CommentInput{Content: req.Content}, user)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(comment)
}

// ListComments GET /api/tickets/:ticketId/comments.
func (h *CommentsHandler) ListComments(c *fiber.Ctx) error {
	ticketID, err := parseID(c, "ticketId")
	if err != nil {
		return err
	}
	comments, err := h.service.GetCommentsByTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

// DeleteComment DELETE /api/tickets/:ticketId/comments/:commentId.
func (h *CommentsHandler) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return err
	}
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteComment(c.UserContext(), commentID, user); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
