package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/srr-project/srr-backend/apperror"
)

var validate = validator.New()

// respondError maps the service error taxonomy onto HTTP responses.
// Conflict errors carry the colliding windows so the caller can propose an
// alternative; anything outside the taxonomy is an internal error.
func respondError(c *fiber.Ctx, err error) error {
	var conflict *apperror.ConflictError
	if errors.As(err, &conflict) {
		return c.Status(conflict.HTTPStatus()).JSON(fiber.Map{
			"error":     conflict.Message,
			"code":      conflict.Kind,
			"conflicts": conflict.Conflicts,
		})
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return c.Status(appErr.HTTPStatus()).JSON(fiber.Map{
			"error": appErr.Message,
			"code":  appErr.Kind,
		})
	}

	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
