package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/service"
	apperrors "github.com/OutOfContext/MyTicketSystem/pkg/util"
)

// UsersHandler exposes the user directory.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// ListUsers GET /api/users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.GetAllUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// GetUser GET /api/users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateRole PATCH /api/users/:id/role?role=.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	role, ok := domain.ParseRole(c.Query("role"))
	if !ok {
		return apperrors.NewValidationError("role must be one of [USER SUPPORT ADMIN]", map[string]any{"role": c.Query("role")})
	}
	user, err := h.users.UpdateUserRole(c.UserContext(), id, role)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// DeleteUser DELETE /api/users/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
