package handlers

import (
	"github.com/docuvault/docuvault/internal/apperr"
	"github.com/docuvault/docuvault/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// renderError maps the error taxonomy to HTTP statuses in one place.
func renderError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = fiber.StatusBadRequest
	case apperr.KindUnauthorized, apperr.KindTokenExpired, apperr.KindTokenInvalid:
		status = fiber.StatusUnauthorized
	case apperr.KindForbidden:
		status = fiber.StatusForbidden
	case apperr.KindNotFound:
		status = fiber.StatusNotFound
	case apperr.KindConflict:
		status = fiber.StatusConflict
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Message: apperr.MessageOf(err),
	})
}

func renderUnauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func renderBadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
