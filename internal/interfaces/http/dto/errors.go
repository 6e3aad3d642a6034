package dto

import (
	"net/http"

	"github.com/ims/backend/internal/domain/shared"
)

// Error codes surfaced in the envelope. Domain codes are used as-is.
const (
	ErrCodeValidation        = shared.CodeValidation
	ErrCodeInvalidInput      = shared.CodeInvalidInput
	ErrCodeUnauthorized      = shared.CodeUnauthorized
	ErrCodeForbidden         = shared.CodeForbidden
	ErrCodeNotFound          = shared.CodeNotFound
	ErrCodeAlreadyExists     = shared.CodeAlreadyExists
	ErrCodeDuplicateRequest  = shared.CodeDuplicateRequest
	ErrCodeInsufficientStock = shared.CodeInsufficientStock
	ErrCodeStorage           = shared.CodeStorage

	// Authentication failures raised by the auth service
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeTokenRevoked       = "TOKEN_REVOKED"
	ErrCodeTokenMaxRefresh    = "TOKEN_MAX_REFRESH"

	ErrCodeCategoryInUse   = "CATEGORY_IN_USE"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeTokenMaxRefresh:    http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeDuplicateRequest: http.StatusConflict,
	ErrCodeCategoryInUse:    http.StatusConflict,

	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	ErrCodeStorage:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ValidationDetails flattens field errors into response details, sorted by field
func ValidationDetails(verr *shared.ValidationError) []ValidationDetail {
	details := make([]ValidationDetail, 0, len(verr.Fields))
	for _, field := range verr.FieldNames() {
		for _, msg := range verr.Fields[field] {
			details = append(details, ValidationDetail{Field: field, Message: msg})
		}
	}
	return details
}
