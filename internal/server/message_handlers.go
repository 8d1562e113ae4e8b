package server

import (
	"github.com/gofiber/fiber/v2"

	"commune/internal/models"
)

// SendMessageRequest is the direct message request body.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessage sends a direct message to a friend
func (s *Server) SendMessage(c *fiber.Ctx) error {
	recipient := c.Params("recipient")

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.SendMessage(c.UserContext(), currentUsername(c), recipient, req.Text)
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetSentMessages lists the caller's sent messages, newest first
func (s *Server) GetSentMessages(c *fiber.Ctx) error {
	messages, err := s.messageService.ListSent(c.UserContext(), currentUsername(c))
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(messages)
}

// GetReceivedMessages lists the caller's received messages, newest first
func (s *Server) GetReceivedMessages(c *fiber.Ctx) error {
	messages, err := s.messageService.ListReceived(c.UserContext(), currentUsername(c))
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(messages)
}
