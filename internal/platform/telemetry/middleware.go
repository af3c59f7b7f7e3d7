package telemetry

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jsamuelsen/quote-rotator/telemetry"

// Route groups label request metrics and spans by the part of the site hit.
const (
	RouteGroupQuoteData = "quote-data" // the quote list read by the page script and the CLI
	RouteGroupAPI       = "api"
	RouteGroupPage      = "page"
	RouteGroupOps       = "ops" // /-/ health and metrics
	RouteGroupUnmatched = "unmatched"
)

const attrRouteGroup = attribute.Key("quote_rotator.route_group")

// RouteGroup classifies a gin route template. quoteDataPath is where the
// quote list is mounted.
func RouteGroup(route, quoteDataPath string) string {
	switch {
	case route == "":
		return RouteGroupUnmatched
	case route == quoteDataPath:
		return RouteGroupQuoteData
	case strings.HasPrefix(route, "/-/"):
		return RouteGroupOps
	case strings.HasPrefix(route, "/api/"):
		return RouteGroupAPI
	default:
		return RouteGroupPage
	}
}

// MiddlewareConfig configures Middleware.
type MiddlewareConfig struct {
	// QuoteDataPath defaults to /api/qt-data.
	QuoteDataPath string

	// MeterProvider defaults to the global provider.
	MeterProvider metric.MeterProvider
}

// httpMetrics holds the request instruments.
type httpMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	active   metric.Int64UpDownCounter
}

func newHTTPMetrics(mp metric.MeterProvider) (*httpMetrics, error) {
	meter := mp.Meter(instrumentationName)

	duration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	total, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{duration: duration, total: total, active: active}, nil
}

// Middleware records request metrics labelled with the route group, tags
// the request span with the same group and echoes its trace ID in
// X-Trace-ID. Mount TracingMiddleware before it so a span exists.
func Middleware(cfg MiddlewareConfig) gin.HandlerFunc {
	quoteDataPath := cfg.QuoteDataPath
	if quoteDataPath == "" {
		quoteDataPath = "/api/qt-data"
	}

	mp := cfg.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	metrics, err := newHTTPMetrics(mp)
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		route := c.FullPath()
		group := RouteGroup(route, quoteDataPath)

		span := trace.SpanFromContext(ctx)
		span.SetAttributes(attrRouteGroup.String(group))

		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Header("X-Trace-ID", sc.TraceID().String())
		}

		base := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attrRouteGroup.String(group),
		}

		if metrics != nil {
			metrics.active.Add(ctx, 1, metric.WithAttributes(base...))
			defer metrics.active.Add(ctx, -1, metric.WithAttributes(base...))
		}

		c.Next()

		if metrics == nil {
			return
		}

		done := metric.WithAttributes(append(base, attribute.Int("http.status_code", c.Writer.Status()))...)
		metrics.duration.Record(ctx, time.Since(start).Seconds(), done)
		metrics.total.Add(ctx, 1, done)
	}
}

// TracingMiddleware starts a server span per request.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
