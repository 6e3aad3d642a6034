package handler

import "github.com/ims/backend/internal/interfaces/http/dto"

// The types below exist for swag only. Handlers write dto.Response.

// APIResponse is the success envelope with a typed data field
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    T         `json:"data,omitempty"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}

// SuccessResponse is returned by operations that have no payload
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}
