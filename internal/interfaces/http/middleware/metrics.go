package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labcore/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HTTPDurationBuckets are latency buckets in seconds
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

const unmatchedRoute = "unmatched"

// HTTPMetrics counts requests and observes latency per route template, so
// "/lab/orders/:id" is one series however many orders exist. Unknown
// paths share the "unmatched" route. A nil meter disables it.
func HTTPMetrics(meter metric.Meter, log *zap.Logger) gin.HandlerFunc {
	if meter == nil {
		return passThrough
	}
	in := telemetry.NewInstruments(meter)
	requests := in.Counter("http_server_request_total", "Total number of HTTP requests", "{request}")
	latency := in.Histogram("http_server_request_duration_seconds", "HTTP request latency in seconds", "s", HTTPDurationBuckets...)
	inflight := in.UpDownCounter("http_server_active_requests", "Number of in-flight HTTP requests", "{request}")
	if err := in.Err(); err != nil {
		if log != nil {
			log.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passThrough
	}

	return func(c *gin.Context) {
		began := time.Now()
		ctx := c.Request.Context()
		byMethod := metric.WithAttributes(attribute.String("method", c.Request.Method))

		inflight.Add(ctx, 1, byMethod)
		defer inflight.Add(ctx, -1, byMethod)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		series := attribute.NewSet(
			attribute.String("method", c.Request.Method),
			attribute.String("route", route),
		)
		requests.Add(ctx, 1, metric.WithAttributeSet(series),
			metric.WithAttributes(attribute.String("status_code", strconv.Itoa(c.Writer.Status()))))
		latency.Record(ctx, time.Since(began).Seconds(), metric.WithAttributeSet(series))
	}
}

func passThrough(c *gin.Context) { c.Next() }
