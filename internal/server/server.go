// Package server exposes the services over HTTP with fiber. Handlers only
// translate JSON requests into service calls and service errors into status
// codes; every rule lives below this layer.
package server

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dhruv1249/expense-server/internal/auth"
	"github.com/Dhruv1249/expense-server/internal/service"
)

// Server wires the HTTP surface to the service layer.
type Server struct {
	app      *fiber.App
	tokens   *auth.JWTManager
	auths    *service.AuthService
	groups   *service.GroupService
	expenses *service.ExpenseService
}

// New builds the fiber app with all routes registered.
func New(tokens *auth.JWTManager, auths *service.AuthService, groups *service.GroupService, expenses *service.ExpenseService) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "expense-server",
			DisableStartupMessage: true,
		}),
		tokens:   tokens,
		auths:    auths,
		groups:   groups,
		expenses: expenses,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(s.requestLogger())

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api")

	api.Post("/auth/register", s.handleRegister)
	api.Post("/auth/login", s.handleLogin)

	authed := api.Group("", s.requireAuth())

	authed.Post("/groups", s.handleCreateGroup)
	authed.Get("/groups", s.handleListGroups)
	authed.Get("/groups/:id", s.handleGetGroup)
	authed.Patch("/groups/:id", s.handleUpdateGroup)
	authed.Delete("/groups/:id", s.handleDeleteGroup)
	authed.Post("/groups/:id/members", s.handleAddMembers)
	authed.Delete("/groups/:id/members/:userId", s.handleRemoveMember)
	authed.Patch("/groups/:id/members/:userId/role", s.handleUpdateMemberRole)
	authed.Get("/groups/:id/stats", s.handleGroupStats)
	authed.Post("/groups/:id/settle", s.handleSettleGroup)
	authed.Get("/groups/:id/expenses", s.handleListExpenses)

	authed.Post("/expenses", s.handleAddExpense)
	authed.Post("/expenses/:id/settle", s.handleSettleExpense)

	authed.Get("/users/me/stats", s.handleUserStats)
}

// Listen starts serving on addr and blocks until shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server, draining in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
