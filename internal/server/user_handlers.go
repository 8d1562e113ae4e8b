package server

import (
	"github.com/gofiber/fiber/v2"

	"commune/internal/models"
)

// ListUsers returns a page of registered users. Admin only.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	users, err := s.authService.ListUsers(c.UserContext(),
		c.QueryInt("page", 0), c.QueryInt("size", 0))
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.Summaries(users))
}
