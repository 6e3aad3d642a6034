package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ims/backend/internal/application/validation"
)

// SetupValidator makes gin's binding validator report JSON field names, so
// binding failures and service-side validation produce the same field keys.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterJSONFieldNames(v)
	}
}
