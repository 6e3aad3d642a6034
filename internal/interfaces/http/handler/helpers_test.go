package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/interfaces/http/dto"
	"github.com/ims/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var (
	testAdmin = shared.NewActor(uuid.MustParse("11111111-1111-1111-1111-111111111111"), shared.RoleAdmin)
	testStaff = shared.NewActor(uuid.MustParse("22222222-2222-2222-2222-222222222222"), shared.RoleStaff)
)

// newTestRouter returns an engine whose requests carry actor and a request ID
func newTestRouter(actor shared.Actor) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		if actor.IsAuthenticated() {
			c.Set(middleware.ActorKey, actor)
		}
		c.Next()
	})
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func requireErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) dto.Response {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	resp := decode(t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	require.Equal(t, code, resp.Error.Code)
	return resp
}
