package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	catalogapp "github.com/ims/backend/internal/application/catalog"
	"github.com/ims/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCategoryHandler(t *testing.T) {
	inUse := uuid.New()
	svc := new(mockCategoryService)
	svc.On("Create", mock.Anything, testAdmin, catalogapp.CreateCategoryRequest{Name: "Peripherals"}).
		Return(&catalogapp.CategoryResponse{Name: "Peripherals", Slug: "peripherals"}, nil)
	svc.On("List", mock.Anything).Return([]catalogapp.CategoryResponse{{Slug: "peripherals"}}, nil)
	svc.On("Delete", mock.Anything, testAdmin, inUse).Return(catalogapp.ErrCategoryInUse)

	h := NewCategoryHandler(svc)
	r := newTestRouter(testAdmin)
	r.GET("/categories", h.List)
	r.POST("/categories", h.Create)
	r.DELETE("/categories/:id", h.Delete)

	w := doJSON(r, http.MethodPost, "/categories", `{"name":"Peripherals"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"peripherals"`)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/categories", nil).Code)
	requireErrorCode(t, doJSON(r, http.MethodDelete, "/categories/"+inUse.String(), nil),
		http.StatusConflict, dto.ErrCodeCategoryInUse)
}
