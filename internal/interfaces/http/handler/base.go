package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ims/backend/internal/application/validation"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/logger"
	"github.com/ims/backend/internal/interfaces/http/dto"
	"github.com/ims/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response, deriving the status from the code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 INVALID_INPUT response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeInvalidInput, message)
}

// ValidationFailed sends a 400 response listing every failed field
func (h *BaseHandler) ValidationFailed(c *gin.Context, verr *shared.ValidationError) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		middleware.GetRequestID(c),
		dto.ValidationDetails(verr),
	))
}

// BindError reports a failed ShouldBind*. Rule failures become field
// details; anything else is a malformed body.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	if verr := validation.FromError(err); verr != nil {
		h.ValidationFailed(c, verr)
		return
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.Error(c, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
		return
	}
	h.BadRequest(c, "Invalid request body")
}

// HandleError maps service errors onto the response envelope. Unknown
// errors are logged and reported as 500 without their message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		h.ValidationFailed(c, verr)
		return
	}

	if de, ok := shared.AsDomainError(err); ok {
		if de.Code == dto.ErrCodeStorage {
			logger.GetGinLogger(c).Error("storage failure", zap.Error(err))
		}
		h.Error(c, de.Code, de.Message)
		return
	}

	logger.GetGinLogger(c).Error("unhandled error", zap.Error(err))
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// parseID reads a UUID path parameter, replying 400 when it is malformed
func (h *BaseHandler) parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.ValidationFailed(c, shared.NewValidationError().Add(param, "Invalid UUID format"))
		return uuid.Nil, false
	}
	return id, true
}

// actor returns the authenticated actor set by the JWT middleware
func actor(c *gin.Context) shared.Actor {
	return middleware.GetActor(c)
}
