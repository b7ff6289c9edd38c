// Package handler holds the JSON envelope helpers and shared constants of
// the web handler tree.
package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// OK sends the success envelope {success: true, data: ...}.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// Fail sends the failure envelope {success: false, message: ...}.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// FieldError is one field-level validation failure.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// FailValidation sends a 422 envelope carrying field-level detail when err
// is a validator error, a bare 422 otherwise.
func FailValidation(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Fail(c, fiber.StatusUnprocessableEntity, "Invalid payload")
	}

	fields := make([]FieldError, len(verrs))
	for i, ve := range verrs {
		fields[i] = FieldError{Field: ve.Field(), Tag: ve.Tag(), Param: ve.Param()}
	}

	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"success": false,
		"message": "Invalid payload",
		"errors":  fields,
	})
}

// Internal logs the original error server-side and sends a generic 500
// envelope. Internal error detail never reaches the client.
func Internal(c *fiber.Ctx, err error, message string) error {
	log.Error().Err(err).Str("path", c.Path()).Msg(message)

	return Fail(c, fiber.StatusInternalServerError, message)
}
