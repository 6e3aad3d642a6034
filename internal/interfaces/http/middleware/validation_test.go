package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ims/backend/internal/application/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type skuRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"gte=1"`
}

func TestSetupValidator_ReportsJSONNames(t *testing.T) {
	SetupValidator()

	var fields []string
	r := gin.New()
	r.POST("/test", func(c *gin.Context) {
		var req skuRequest
		err := c.ShouldBindJSON(&req)
		verr := validation.FromError(err)
		if verr != nil {
			fields = verr.FieldNames()
		}
		c.Status(http.StatusBadRequest)
	})

	serve(r, httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(`{"quantity":0}`)))

	require.NotNil(t, fields)
	assert.Equal(t, []string{"quantity", "sku"}, fields)
}
