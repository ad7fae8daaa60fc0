package http

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the `validate` tags of a request payload struct.
// Boundary-level shape checks only; domain rules live in the services.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}
