package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"commune/internal/models"
)

// Invite sends a friend invitation to the named recipient
func (s *Server) Invite(c *fiber.Ctx) error {
	recipient := c.Params("recipient")

	invitation, err := s.socialService.Invite(c.UserContext(), currentUsername(c), recipient)
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(invitation)
}

// AcceptInvite accepts a pending invitation addressed to the caller
func (s *Server) AcceptInvite(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid invitation ID"))
	}

	invitation, err := s.socialService.AcceptInvite(c.UserContext(), currentUsername(c), uint(id))
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(invitation)
}

// GetIncomingInvitations lists the caller's pending invitation inbox
func (s *Server) GetIncomingInvitations(c *fiber.Ctx) error {
	invitations, err := s.socialService.ListIncomingInvitations(c.UserContext(), currentUsername(c))
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(invitations)
}

// RemoveFriend dissolves the friendship with the named user
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	friend := c.Params("username")

	if err := s.socialService.RemoveFriend(c.UserContext(), currentUsername(c), friend); err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Friend removed",
	})
}

// GetFriends lists the named user's friends
func (s *Server) GetFriends(c *fiber.Ctx) error {
	username := c.Params("username")

	friends, err := s.socialService.ListFriends(c.UserContext(), username)
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(friends)
}
