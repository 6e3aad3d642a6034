package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"insufficient stock", shared.NewDomainError(shared.CodeInsufficientStock, "Only 3 left"), http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"unique violation", shared.NewUniqueViolationError("sku", errors.New("23505")), http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"duplicate request", shared.ErrDuplicateRequest, http.StatusConflict, dto.ErrCodeDuplicateRequest},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
		{"storage", shared.NewStorageError("product.update", errors.New("conn reset")), http.StatusInternalServerError, dto.ErrCodeStorage},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(testAdmin)
			h := &BaseHandler{}
			r.GET("/x", func(c *gin.Context) { h.HandleError(c, tt.err) })

			resp := requireErrorCode(t, doJSON(r, http.MethodGet, "/x", nil), tt.status, tt.code)
			assert.NotEmpty(t, resp.Error.RequestID)
			assert.NotContains(t, resp.Error.Message, "conn reset")
			assert.NotContains(t, resp.Error.Message, "boom")
		})
	}
}

func TestHandleError_UniqueViolationNamesField(t *testing.T) {
	r := newTestRouter(testAdmin)
	h := &BaseHandler{}
	r.GET("/x", func(c *gin.Context) { h.HandleError(c, shared.NewUniqueViolationError("email", nil)) })

	resp := requireErrorCode(t, doJSON(r, http.MethodGet, "/x", nil), http.StatusConflict, dto.ErrCodeAlreadyExists)
	assert.Equal(t, "email already exists", resp.Error.Message)
}

func TestHandleError_ValidationDetails(t *testing.T) {
	r := newTestRouter(testAdmin)
	h := &BaseHandler{}
	verr := shared.NewValidationError().Add("sku", "This field is required").Add("name", "Must be at least 2 characters")
	r.GET("/x", func(c *gin.Context) { h.HandleError(c, verr) })

	resp := requireErrorCode(t, doJSON(r, http.MethodGet, "/x", nil), http.StatusBadRequest, dto.ErrCodeValidation)
	assert.Equal(t, []dto.ValidationDetail{
		{Field: "name", Message: "Must be at least 2 characters"},
		{Field: "sku", Message: "This field is required"},
	}, resp.Error.Details)
}

func TestBindError_MalformedBody(t *testing.T) {
	r := newTestRouter(testAdmin)
	h := &BaseHandler{}
	r.POST("/x", func(c *gin.Context) {
		var body struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			h.BindError(c, err)
		}
	})

	requireErrorCode(t, doJSON(r, http.MethodPost, "/x", "{not json"), http.StatusBadRequest, dto.ErrCodeInvalidInput)
	resp := requireErrorCode(t, doJSON(r, http.MethodPost, "/x", "{}"), http.StatusBadRequest, dto.ErrCodeValidation)
	assert.Equal(t, "name", resp.Error.Details[0].Field)
}
