package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/OutOfContext/MyTicketSystem/internal/api/http/handlers"
	"github.com/OutOfContext/MyTicketSystem/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	Authorizer     *auth.Authorizer
}

// RegisterRoutes wires HTTP routes. Each protected route declares the
// permission it needs; the authorizer maps roles to permissions.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	api := app.Group("/api")
	authn := cfg.AuthMiddleware.Handle
	can := cfg.Authorizer.Require

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/logout", authn, cfg.Auth.Logout)
	authGroup.Get("/me", authn, cfg.Auth.Me)

	tickets := api.Group("/tickets", authn)
	// Fixed paths first so they are not captured by /:id.
	tickets.Get("/search", can(auth.ResourceTickets, auth.ActionRead), cfg.Tickets.SearchTickets)
	tickets.Get("/my-tickets", can(auth.ResourceTickets, auth.ActionRead), cfg.Tickets.MyTickets)
	tickets.Get("/assigned-to-me", can(auth.ResourceTickets, auth.ActionReadAssigned), cfg.Tickets.AssignedToMe)
	tickets.Post("/", can(auth.ResourceTickets, auth.ActionCreate), cfg.Tickets.CreateTicket)
	tickets.Get("/", can(auth.ResourceTickets, auth.ActionRead), cfg.Tickets.ListTickets)
	tickets.Get("/:id", can(auth.ResourceTickets, auth.ActionRead), cfg.Tickets.GetTicket)
	tickets.Put("/:id", can(auth.ResourceTickets, auth.ActionUpdate), cfg.Tickets.UpdateTicket)
	tickets.Patch("/:id/status", can(auth.ResourceTickets, auth.ActionUpdateStatus), cfg.Tickets.UpdateStatus)
	tickets.Delete("/:id", can(auth.ResourceTickets, auth.ActionDelete), cfg.Tickets.DeleteTicket)

	tickets.Post("/:ticketId/comments", can(auth.ResourceComments, auth.ActionCreate), cfg.Comments.AddComment)
	tickets.Get("/:ticketId/comments", can(auth.ResourceComments, auth.ActionRead), cfg.Comments.ListComments)
	tickets.Delete("/:ticketId/comments/:commentId", can(auth.ResourceComments, auth.ActionDelete), cfg.Comments.DeleteComment)

	users := api.Group("/users", authn)
	users.Get("/", can(auth.ResourceUsers, auth.ActionList), cfg.Users.ListUsers)
	users.Get("/:id", can(auth.ResourceUsers, auth.ActionRead), cfg.Users.GetUser)
	users.Patch("/:id/role", can(auth.ResourceUsers, auth.ActionUpdateRole), cfg.Users.UpdateRole)
	users.Delete("/:id", can(auth.ResourceUsers, auth.ActionDelete), cfg.Users.DeleteUser)
}
