package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-rotator/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-rotator/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generated when missing"},
		{name: "propagated when present", incoming: "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromGin, fromCtx string

			engine := gin.New()
			engine.Use(RequestID())
			engine.GET("/", func(c *gin.Context) {
				fromGin = GetRequestID(c)
				fromCtx = RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderRequestID, tt.incoming)
			}

			w := serve(engine, req)
			header := w.Header().Get(HeaderRequestID)

			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, header)
			} else {
				_, err := uuid.Parse(header)
				require.NoError(t, err)
			}

			assert.Equal(t, header, fromGin)
			assert.Equal(t, header, fromCtx)
		})
	}
}

func TestCorrelationID(t *testing.T) {
	var fromGin, fromCtx string

	engine := gin.New()
	engine.Use(CorrelationID())
	engine.GET("/", func(c *gin.Context) {
		fromGin = GetCorrelationID(c)
		fromCtx = CorrelationIDFromContext(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "corr-9")

	w := serve(engine, req)

	assert.Equal(t, "corr-9", w.Header().Get(HeaderCorrelationID))
	assert.Equal(t, "corr-9", fromGin)
	assert.Equal(t, "corr-9", fromCtx)
}

func TestIDMiddleware_EnrichesLogger(t *testing.T) {
	var buf bytes.Buffer

	base := slog.New(slog.NewJSONHandler(&buf, nil))

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), base))
	}, RequestID(), CorrelationID())
	engine.GET("/", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("handled")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "r-1")
	req.Header.Set(HeaderCorrelationID, "c-1")
	serve(engine, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "r-1", entry["request_id"])
	assert.Equal(t, "c-1", entry["correlation_id"])
}

func TestContextHelpers(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
	//nolint:staticcheck // nil context is handled
	assert.Empty(t, RequestIDFromContext(nil))

	ctx := ContextWithCorrelationID(ContextWithRequestID(context.Background(), "r"), "c")
	assert.Equal(t, "r", RequestIDFromContext(ctx))
	assert.Equal(t, "c", CorrelationIDFromContext(ctx))

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetRequestID(c))
	assert.Empty(t, GetCorrelationID(c))
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		skip      []string
		wantLevel string
		wantLog   bool
	}{
		{name: "success", path: "/api/v1/quotes?limit=2", status: http.StatusOK, wantLevel: "INFO", wantLog: true},
		{name: "client error", path: "/api/v1/quotes/0", status: http.StatusBadRequest, wantLevel: "WARN", wantLog: true},
		{name: "server error", path: "/api/qt-data", status: http.StatusInternalServerError, wantLevel: "ERROR", wantLog: true},
		{name: "health skipped", path: "/-/live", status: http.StatusOK},
		{name: "explicit skip", path: "/favicon.ico", status: http.StatusOK, skip: []string{"/favicon.ico"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			engine := gin.New()
			engine.Use(func(c *gin.Context) {
				c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
			}, Logging(tt.skip...))
			engine.NoRoute(func(c *gin.Context) { c.Status(tt.status) })

			serve(engine, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if !tt.wantLog {
				assert.Zero(t, buf.Len())
				return
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.path, entry["path"])
			assert.EqualValues(t, tt.status, entry["status"])
		})
	}
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery())
	engine.GET("/panic", func(*gin.Context) { panic("boom") })
	engine.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late boom")
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
	assert.Equal(t, "an internal error occurred", resp.Error.Message)

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/partial", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var deadline time.Time
	var ok bool

	engine := gin.New()
	engine.Use(Timeout(time.Minute))
	engine.GET("/", func(c *gin.Context) {
		deadline, ok = c.Request.Context().Deadline()
		c.Status(http.StatusNoContent)
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestTimeout_Exceeded(t *testing.T) {
	engine := gin.New()
	engine.Use(Timeout(10 * time.Millisecond))
	engine.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeTimeout, resp.Error.Code)
}

func TestBodyLimit(t *testing.T) {
	engine := gin.New()
	engine.Use(BodyLimit(4))
	engine.POST("/", func(c *gin.Context) {
		var v map[string]any
		if err := c.ShouldBindJSON(&v); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		c.Status(http.StatusNoContent)
	})

	w := serve(engine, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"class":"navbar-list"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = serve(engine, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Unknown length: the cap is enforced while reading.
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"class":"navbar-list"}`))
	req.ContentLength = -1
	w = serve(engine, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
