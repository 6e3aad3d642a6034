package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	inventoryapp "github.com/ims/backend/internal/application/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/interfaces/http/dto"
	"github.com/ims/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func inventoryRouter(svc InventoryService) http.Handler {
	h := NewInventoryHandler(svc)
	r := newTestRouter(testStaff)
	r.POST("/transactions", h.RecordTransaction)
	r.GET("/transactions", h.ListTransactions)
	r.GET("/transactions/:id", h.GetTransaction)
	return r
}

func TestInventoryHandler_RecordTransaction(t *testing.T) {
	productID := uuid.New()
	req := inventoryapp.RecordTransactionRequest{ProductID: productID.String(), Type: "OUT", Quantity: 3}

	svc := new(mockInventoryService)
	svc.On("RecordTransaction", mock.Anything, testStaff, req, "key-1").
		Return(&inventoryapp.TransactionResponse{ProductID: productID, Type: "OUT", Quantity: 3, StockBefore: 10, StockAfter: 7}, nil)

	httpReq := httptest.NewRequest(http.MethodPost, "/transactions",
		strings.NewReader(`{"product_id":"`+productID.String()+`","type":"OUT","quantity":3}`))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(middleware.IdempotencyKeyHeader, "key-1")
	w := httptest.NewRecorder()
	inventoryRouter(svc).ServeHTTP(w, httpReq)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"stock_after":7`)
	svc.AssertExpectations(t)
}

func TestInventoryHandler_RecordTransactionErrors(t *testing.T) {
	body := `{"product_id":"` + uuid.NewString() + `","type":"OUT","quantity":50}`

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"insufficient stock", shared.NewDomainError(shared.CodeInsufficientStock, "Insufficient stock: 7 available, 50 requested"), http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"unknown product", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"replayed key", shared.ErrDuplicateRequest, http.StatusConflict, dto.ErrCodeDuplicateRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockInventoryService)
			svc.On("RecordTransaction", mock.Anything, testStaff, mock.Anything, "").Return(nil, tt.err)

			resp := requireErrorCode(t, doJSON(inventoryRouter(svc), http.MethodPost, "/transactions", body), tt.status, tt.code)
			assert.Equal(t, tt.err.Error(), resp.Error.Message)
		})
	}
}

func TestInventoryHandler_RecordTransactionValidation(t *testing.T) {
	svc := new(mockInventoryService)
	w := doJSON(inventoryRouter(svc), http.MethodPost, "/transactions", `{"product_id":"x","type":"MOVE","quantity":0}`)

	resp := requireErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	assert.Len(t, resp.Error.Details, 3)
	svc.AssertNotCalled(t, "RecordTransaction")
}

func TestInventoryHandler_ListTransactions(t *testing.T) {
	svc := new(mockInventoryService)
	svc.On("ListTransactions", mock.Anything, testStaff, inventoryapp.TransactionListFilter{Type: "IN", Page: 1, PageSize: 20}).
		Return([]inventoryapp.TransactionResponse{{Type: "IN"}}, int64(1), nil)

	w := doJSON(inventoryRouter(svc), http.MethodGet, "/transactions?type=IN&page=1&page_size=20", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestInventoryHandler_GetTransaction(t *testing.T) {
	id := uuid.New()
	svc := new(mockInventoryService)
	svc.On("GetTransaction", mock.Anything, testStaff, id).Return(&inventoryapp.TransactionResponse{ID: id}, nil)

	w := doJSON(inventoryRouter(svc), http.MethodGet, "/transactions/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.String())
}
