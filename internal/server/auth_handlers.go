package server

import (
	"github.com/gofiber/fiber/v2"

	"commune/internal/middleware"
	"commune/internal/models"
	"commune/internal/service"
)

// SignupRequest is the registration request body.
type SignupRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// SigninRequest is the login request body.
type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles user registration
func (s *Server) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		"username", user.Username)
	return c.Status(fiber.StatusCreated).JSON(user.Summary())
}

// Signin handles user login and returns a bearer token
func (s *Server) Signin(c *fiber.Ctx) error {
	var req SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.authService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
