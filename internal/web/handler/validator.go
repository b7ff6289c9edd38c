package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the custom rules used by the API
// handlers registered.
func NewValidator() *validator.Validate {
	v := validator.New()

	// imageurl accepts http(s) URLs and local public upload paths.
	_ = v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()

		return strings.HasPrefix(s, "http://") ||
			strings.HasPrefix(s, "https://") ||
			strings.HasPrefix(s, "/uploads/")
	})

	return v
}
