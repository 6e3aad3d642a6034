package shared

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so wrapped copies
// with a more specific message still satisfy errors.Is against the sentinel.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound             = "NOT_FOUND"
	CodeAlreadyExists        = "ALREADY_EXISTS"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeValidation           = "VALIDATION_ERROR"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodeDuplicateRequest     = "DUPLICATE_REQUEST"
	CodeStorage              = "STORAGE_ERROR"
	CodeNotificationDelivery = "NOTIFICATION_DELIVERY"
)

// Common domain errors
var (
	ErrNotFound             = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists        = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput         = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrValidation           = NewDomainError(CodeValidation, "Validation failed")
	ErrUnauthorized         = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden            = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInsufficientStock    = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrDuplicateRequest     = NewDomainError(CodeDuplicateRequest, "Request with this idempotency key was already processed")
	ErrStorage              = NewDomainError(CodeStorage, "Storage operation failed")
	ErrNotificationDelivery = NewDomainError(CodeNotificationDelivery, "Notification delivery failed")
)

// ValidationError carries per-field messages keyed by the request field name.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for a field and returns the receiver for chaining
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns nil when no field failed, so callers can `return v.OrNil()`
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// FieldNames returns the failed field names in sorted order
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.FieldNames() {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// UniqueViolationError reports that a unique constraint rejected a write.
// Field names the request field the conflicting value came from.
type UniqueViolationError struct {
	Field string
	Err   error
}

// NewUniqueViolationError creates a UniqueViolationError for the given field
func NewUniqueViolationError(field string, cause error) *UniqueViolationError {
	return &UniqueViolationError{Field: field, Err: cause}
}

// Error implements the error interface
func (e *UniqueViolationError) Error() string {
	if e.Field == "" {
		return "value already exists"
	}
	return fmt.Sprintf("%s already exists", e.Field)
}

// Unwrap lets errors.Is(err, ErrAlreadyExists) match
func (e *UniqueViolationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAlreadyExists}
	}
	return []error{ErrAlreadyExists, e.Err}
}

// StorageError wraps an opaque backend failure
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err with the failing operation name
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// Error implements the error interface
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

// Unwrap lets errors.Is(err, ErrStorage) match and exposes the cause
func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// NotificationDeliveryError is logged by the notifier and never returned to
// the caller of a stock transaction.
type NotificationDeliveryError struct {
	Channel string
	Err     error
}

// Error implements the error interface
func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("notification delivery via %s failed: %v", e.Channel, e.Err)
}

// Unwrap lets errors.Is(err, ErrNotificationDelivery) match
func (e *NotificationDeliveryError) Unwrap() []error {
	return []error{ErrNotificationDelivery, e.Err}
}

// AsDomainError extracts the DomainError code and message for err.
// Structured variants resolve to their sentinel code with their own message.
func AsDomainError(err error) (*DomainError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return NewDomainError(CodeValidation, ve.Error()), true
	}
	var uv *UniqueViolationError
	if errors.As(err, &uv) {
		return NewDomainError(CodeAlreadyExists, uv.Error()), true
	}
	var se *StorageError
	if errors.As(err, &se) {
		return ErrStorage, true
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
