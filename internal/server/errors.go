package server

import (
	"errors"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler maps handler errors to the not-found and server-error pages.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	var appErr *models.AppError
	switch {
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
	case errors.As(err, &appErr):
		switch appErr.Code {
		case models.CodeNotFound:
			status = fiber.StatusNotFound
		case models.CodeForbidden:
			status = fiber.StatusForbidden
		case models.CodeUnauthorized:
			status = fiber.StatusUnauthorized
		case models.CodeValidation:
			status = fiber.StatusBadRequest
		case models.CodeConflict:
			status = fiber.StatusConflict
		}
	}

	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			"error", err, "path", c.Path(), "method", c.Method())
	}

	switch status {
	case fiber.StatusNotFound:
		return s.renderError(c, status, "core/404", "Page not found")
	case fiber.StatusInternalServerError:
		return s.renderError(c, status, "core/500", "Server error")
	default:
		return c.Status(status).SendString(statusMessage(err))
	}
}

// NotFound is the catch-all for unknown routes.
func (s *Server) NotFound(c *fiber.Ctx) error {
	return fiber.ErrNotFound
}

func (s *Server) renderError(c *fiber.Ctx, status int, name, title string) error {
	body, err := s.renderBytes(name, s.page(c, title, fiber.Map{}))
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "error page render failed", "error", err)
		return c.Status(status).SendString(title)
	}
	return sendHTML(c, status, body)
}

func statusMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Message
	}
	return fiber.ErrInternalServerError.Message
}
