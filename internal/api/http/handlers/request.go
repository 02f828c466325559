package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/OutOfContext/MyTicketSystem/internal/auth"
	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	apperrors "github.com/OutOfContext/MyTicketSystem/pkg/util"
)

// parseBody decodes the JSON body into dst and validates it.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return apperrors.ValidateStruct(dst)
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+param, map[string]any{param: c.Params(param)})
	}
	return id, nil
}

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}
