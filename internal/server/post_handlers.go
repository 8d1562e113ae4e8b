package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"commune/internal/models"
	"commune/internal/service"
)

// CreatePostRequest is the post creation request body. The image, when
// present, is base64 in JSON and stored as an opaque blob.
type CreatePostRequest struct {
	Header string `json:"header"`
	Text   string `json:"text"`
	Image  []byte `json:"image"`
}

// CreatePost creates a post owned by the caller
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Username: currentUsername(c),
		Header:   req.Header,
		Text:     req.Text,
		Image:    req.Image,
	})
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost deletes the caller's own post
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	if err := s.postService.DeletePost(c.UserContext(), currentUsername(c), uint(id)); err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post deleted",
	})
}

// GetUserPosts lists the named user's posts, newest first
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	username := c.Params("username")
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 0)

	posts, err := s.postService.ListUserPosts(c.UserContext(), username, page, size)
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

// ActivityFeed lists posts from users the named user is subscribed to
func (s *Server) ActivityFeed(c *fiber.Ctx) error {
	username := c.Params("username")
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 0)

	posts, err := s.postService.ActivityFeed(c.UserContext(), username, page, size)
	if err != nil {
		return models.RespondWithServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}
