package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/labcore/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of application spans
const TracerName = "labcore-backend"

// Attribute keys shared by the lab services
const (
	SpanAttrOrderID   = "order_id"
	SpanAttrResultID  = "result_id"
	SpanAttrPatientID = "patient_id"
	SpanAttrItemID    = "inventory_item_id"
	SpanAttrAmount    = "amount"

	spanAttrErrorCode     = "error.code"
	spanAttrErrorCategory = "error.category"
)

// StartSpan opens an internal span on the global provider; End is the
// caller's job.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// StartServiceSpan names the span "<service>.<operation>", as in "lab_order.cancel"
func StartServiceSpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, service+"."+operation, attrs...)
}

// SetAttributes takes key, value, key, value... Entries whose key is not a
// string are dropped along with their value.
func SetAttributes(span trace.Span, kv ...any) {
	if span == nil || len(kv) < 2 {
		return
	}
	var attrs []attribute.KeyValue
	for len(kv) >= 2 {
		if key, ok := kv[0].(string); ok {
			attrs = append(attrs, attr(key, kv[1]))
		}
		kv = kv[2:]
	}
	span.SetAttributes(attrs...)
}

// SetAttribute is SetAttributes for a single pair
func SetAttribute(span trace.Span, key string, value any) {
	if span != nil {
		span.SetAttributes(attr(key, value))
	}
}

// RecordError marks the span failed. Domain errors also tag the span with
// their code and category so rejected requests can be told apart from
// faults.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		span.SetAttributes(
			attribute.String(spanAttrErrorCode, de.Code),
			attribute.String(spanAttrErrorCategory, string(shared.CategoryOf(err))),
		)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func SetOK(span trace.Span) {
	if span != nil {
		span.SetStatus(codes.Ok, "")
	}
}

// GetTraceID is the hex trace id active in ctx, empty without a span
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID is the hex span id active in ctx, empty without a span
func GetSpanID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasSpanID() {
		return sc.SpanID().String()
	}
	return ""
}

func attr(key string, value any) attribute.KeyValue {
	k := attribute.Key(key)
	switch v := value.(type) {
	case string:
		return k.String(v)
	case bool:
		return k.Bool(v)
	case int:
		return k.Int(v)
	case int64:
		return k.Int64(v)
	case float64:
		return k.Float64(v)
	case []string:
		return k.StringSlice(v)
	case fmt.Stringer:
		return k.String(v.String())
	case error:
		return k.String(v.Error())
	case uint:
		return k.String(strconv.FormatUint(uint64(v), 10))
	}
	return k.String(fmt.Sprint(value))
}
