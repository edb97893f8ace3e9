package server

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Dhruv1249/expense-server/internal/auth"
)

// actorKey is the fiber locals key holding the authenticated user's ID.
const actorKey = "actorID"

// requireAuth validates the bearer token and stashes the user ID for
// handlers. Requests without a valid token never reach a handler.
func (s *Server) requireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return unauthorized(c, auth.ErrMissingToken.Error())
		}

		claims, err := s.tokens.Validate(token)
		if err != nil {
			return unauthorized(c, auth.ErrInvalidToken.Error())
		}

		c.Locals(actorKey, claims.UserID)
		return c.Next()
	}
}

// actor returns the authenticated user's ID. Only valid behind requireAuth.
func actor(c *fiber.Ctx) string {
	id, _ := c.Locals(actorKey).(string)
	return id
}

// requestLogger logs every request with its status and duration, and feeds
// the request metrics.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		duration := time.Since(start)
		route := c.Route().Path

		observeRequest(c.Method(), route, strconv.Itoa(status), duration)

		if status >= 500 {
			slog.Error("request",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"duration_ms", duration.Milliseconds(),
			)
		} else {
			slog.Info("request",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"duration_ms", duration.Milliseconds(),
			)
		}

		return err
	}
}

// page reads pagination query params, leaving normalization to the services.
func page(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("limit", 0)
}
