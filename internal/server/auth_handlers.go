package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Dhruv1249/expense-server/internal/errs"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  userDTO `json:"user"`
	Token string  `json:"token"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	session, err := s.auths.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(sessionResponse{
		User:  toUserDTO(session.User),
		Token: session.Token,
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	session, err := s.auths.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		// Bad credentials surface as 401 rather than the usual 403.
		if errs.IsKind(err, errs.KindAuthorization) {
			return unauthorized(c, "invalid email or password")
		}
		return respondError(c, err)
	}

	return c.JSON(sessionResponse{
		User:  toUserDTO(session.User),
		Token: session.Token,
	})
}
