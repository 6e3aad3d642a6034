// Package validation checks request structs before any mutation runs.
// Rules are declared with `binding` tags so the same structs are checked
// identically by gin during request binding and by services called directly.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/ims/backend/internal/domain/shared"
)

// TagName is the struct tag holding validation rules
const TagName = "binding"

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator instance
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName(TagName)
		RegisterJSONFieldNames(validate)
	})
	return validate
}

// RegisterJSONFieldNames makes field errors report JSON (or form) names
func RegisterJSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
}

// Struct validates s and returns a *shared.ValidationError keyed by JSON
// field name, or nil when every rule passes.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	if verr := FromError(err); verr != nil {
		return verr
	}
	return err
}

// FromError converts validator.ValidationErrors into a *shared.ValidationError.
// It returns nil when err carries no field errors.
func FromError(err error) *shared.ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	verr := shared.NewValidationError()
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), Message(fe))
	}
	return verr
}

// Message returns a human-readable message for a failed rule
func Message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid", "uuid4":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "eqfield":
		return "Must match " + strings.ToLower(e.Param())
	case "datetime":
		return "Must be a date formatted as " + e.Param()
	case "numeric":
		return "Must be numeric"
	default:
		return "Invalid value"
	}
}
