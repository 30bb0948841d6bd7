package http

import (
	"reflect"
	"strings"

	"loan-portal/internal/domain/apperr"
	"loan-portal/internal/domain/loan"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError = apperr.FieldError

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// one of Pending, Approved, Rejected
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		_, err := loan.ParseStatus(fl.Field().String())
		return err == nil
	})
	// not only whitespace
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		text := e.Kind() == reflect.String
		list := e.Kind() == reflect.Slice
		var msg string
		switch e.Tag() {
		case "required", "notblank":
			msg = "is required"
		case "email":
			msg = "must be a valid email address"
		case "status":
			msg = "must be one of Pending, Approved, Rejected"
		case "min":
			switch {
			case text:
				msg = "must be at least " + e.Param() + " characters"
			case list:
				msg = "must contain at least " + e.Param() + " items"
			default:
				msg = "must be greater than or equal to " + e.Param()
			}
		case "max":
			switch {
			case text:
				msg = "must be at most " + e.Param() + " characters"
			case list:
				msg = "must contain at most " + e.Param() + " items"
			default:
				msg = "must be less than or equal to " + e.Param()
			}
		case "gt":
			msg = "must be greater than " + e.Param()
		case "gte":
			msg = "must be greater than or equal to " + e.Param()
		case "lte":
			msg = "must be less than or equal to " + e.Param()
		default:
			msg = e.Tag() + " validation failed"
		}
		out = append(out, FieldError{Field: field, Message: msg})
	}
	return out
}
