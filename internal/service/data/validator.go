package data

import (
	"github.com/go-playground/validator/v10"
)

// RequestValidator adapts validator v10 to echo.Validator
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a request validator
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate validates a bound request DTO
func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// validationDetails flattens validator errors into field -> failed tag
func validationDetails(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
