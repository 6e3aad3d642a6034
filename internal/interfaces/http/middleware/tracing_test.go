package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func attrMap(attrs []attribute.KeyValue) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, kv := range attrs {
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

func TestTracing_EnrichesSpan(t *testing.T) {
	recorder := withRecorder(t)
	actor := shared.NewActor(uuid.New(), shared.RoleManager)

	r := gin.New()
	r.Use(RequestID(), Tracing(DefaultTracingConfig()), func(c *gin.Context) {
		c.Set(ActorKey, actor)
		c.Next()
	}, SpanEnricher())
	r.GET("/api/v1/reports/dashboard", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/dashboard", nil)
	req.Header.Set(RequestIDHeader, "req-trace")
	serve(r, req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "req-trace", attrs["request_id"])
	assert.Equal(t, actor.ID.String(), attrs["user_id"])
	assert.Equal(t, "manager", attrs["user.role"])
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_Disabled(t *testing.T) {
	recorder := withRecorder(t)

	r := gin.New()
	r.Use(Tracing(TracingConfig{Enabled: false}), SpanEnricher())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorder.Ended())
}
