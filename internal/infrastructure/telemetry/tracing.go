package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of application spans
const TracerName = "ims-backend"

// Span attributes set by the application services
var (
	AttrProductID     = attribute.Key("product_id")
	AttrActorID       = attribute.Key("actor_id")
	AttrQuantity      = attribute.Key("quantity")
	AttrStockAfter    = attribute.Key("stock_after")
	AttrTransactionID = attribute.Key("transaction_id")
	AttrRecipients    = attribute.Key("recipients")
)

// StartSpan starts an internal span on the global tracer provider. The
// caller must End it.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError marks span failed with err. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceID returns the hex trace id in ctx, or "" outside a sampled trace
func TraceID(ctx context.Context) string {
	id := trace.SpanContextFromContext(ctx).TraceID()
	if !id.IsValid() {
		return ""
	}
	return id.String()
}
