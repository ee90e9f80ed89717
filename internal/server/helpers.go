package server

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strconv"
	"strings"

	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// nonFieldErrors is the form error key for errors not tied to one input.
const nonFieldErrors = "__all__"

// formErrors maps a form field to its error message.
type formErrors map[string]string

// fieldErrors turns a validation error into form errors. Other errors are
// returned unchanged for the error handler.
func fieldErrors(err error) (formErrors, error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeValidation && appErr.Code != models.CodeUnauthorized {
		return nil, err
	}
	field := appErr.Field
	if field == "" {
		field = nonFieldErrors
	}
	return formErrors{field: appErr.Message}, nil
}

// parseID reads a positive integer route parameter. Anything else does not
// match a page, so it is reported as not found.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewNotFoundError("Page", c.Params(param))
	}
	return uint(id), nil
}

func parseGroupID(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil, models.NewFieldError("group", service.InvalidChoiceMessage)
	}
	v := uint(id)
	return &v, nil
}

// readUpload returns the uploaded file for field, or nil when none was sent.
func readUpload(c *fiber.Ctx, field string) (*service.ImageUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil || fh.Filename == "" {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &service.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Content:     content,
	}, nil
}

// sessionUserExists tells the session middleware whether a cookie's user is
// still in the database.
func (s *Server) sessionUserExists(ctx context.Context, id uint) (bool, error) {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if models.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}
