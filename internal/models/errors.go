package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusForError maps a service error to an HTTP status. Business-rule
// violations uniformly map to 400; only genuinely unexpected failures
// surface as 500, and those never leak internal detail to the client.
func StatusForError(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case "INTERNAL_ERROR":
		return fiber.StatusInternalServerError
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusBadRequest
	}
}

// RespondWithError writes a standardized error response with the given status.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if appErr.Code == "INTERNAL_ERROR" {
			// never expose the wrapped cause
			msg = "Internal server error"
		}
		return c.Status(status).JSON(ErrorResponse{Message: msg, Code: appErr.Code})
	}
	if status >= fiber.StatusInternalServerError {
		return c.Status(status).JSON(ErrorResponse{Message: "Internal server error"})
	}
	return c.Status(status).JSON(ErrorResponse{Message: err.Error()})
}

// RespondWithServiceError maps a service-layer error to its HTTP status and
// writes the standardized body.
func RespondWithServiceError(c *fiber.Ctx, err error) error {
	return RespondWithError(c, StatusForError(err), err)
}
