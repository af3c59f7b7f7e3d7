package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen/quote-rotator/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-rotator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-rotator/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds /api/v1 requests when RouterConfig.Timeout is unset.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains the handlers mounted by SetupRouter.
// A nil handler leaves its routes out.
type RouterConfig struct {
	// ServiceName names the tracing middleware.
	ServiceName string

	// QuoteAPIPath is where the quote list is served. Defaults to /api/qt-data.
	QuoteAPIPath string

	Quote  *handlers.QuoteHandler
	Menu   *handlers.MenuHandler
	Page   *handlers.PageHandler
	Health *handlers.HealthHandler

	// Timeout is the /api/v1 request deadline.
	Timeout time.Duration

	// MeterProvider receives request metrics. Defaults to the global one.
	MeterProvider metric.MeterProvider
}

// SetupRouter configures middleware and routes on engine.
// Middleware order: recovery, request ID, correlation ID, tracing, request
// metrics, logging. /-/ routes carry no timeout.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) error {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "quote-rotator"
	}

	quotePath := cfg.QuoteAPIPath
	if quotePath == "" {
		quotePath = "/api/qt-data"
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(serviceName),
		telemetry.Middleware(telemetry.MiddlewareConfig{
			QuoteDataPath: quotePath,
			MeterProvider: cfg.MeterProvider,
		}),
		middleware.Logging(),
	)

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(engine.Group("/-"))
	}

	if cfg.Page != nil {
		tmpl, err := handlers.PageTemplate()
		if err != nil {
			return fmt.Errorf("parsing page template: %w", err)
		}

		engine.SetHTMLTemplate(tmpl)
		cfg.Page.RegisterRoutes(engine)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	apiV1 := engine.Group("/api/v1", middleware.Timeout(timeout))

	if cfg.Quote != nil {
		engine.GET(quotePath, middleware.Timeout(timeout), cfg.Quote.QuoteData)
		cfg.Quote.RegisterRoutes(apiV1)
	}

	if cfg.Menu != nil {
		cfg.Menu.RegisterRoutes(apiV1)
	}

	return nil
}
