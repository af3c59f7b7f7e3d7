package acl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-rotator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-rotator/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL string) *clients.Client {
	t.Helper()

	client, err := clients.New(&clients.Config{
		ServiceName: "quote-api",
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		Logger:      discardLogger(),
	})
	require.NoError(t, err)

	return client
}

// setupQuoteClient creates a QuoteClient backed by a test server.
func setupQuoteClient(t *testing.T, handler http.HandlerFunc) *QuoteClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewQuoteClient(QuoteClientConfig{
		Client: newTestClient(t, server.URL),
		Logger: discardLogger(),
	})
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestNewQuoteClient_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewQuoteClient(QuoteClientConfig{Logger: slog.Default()})
	})
}

func TestNewQuoteClient_Defaults(t *testing.T) {
	qc := NewQuoteClient(QuoteClientConfig{Client: newTestClient(t, "http://localhost:1")})

	assert.Equal(t, DefaultQuotePath, qc.Path())
	assert.NotNil(t, qc.logger)
	assert.Equal(t, "quote-api", qc.Name())
}

func TestNewQuoteClient_NormalizesPath(t *testing.T) {
	qc := NewQuoteClient(QuoteClientConfig{
		Client: newTestClient(t, "http://localhost:1"),
		Path:   "quotes.json",
	})

	assert.Equal(t, "/quotes.json", qc.Path())
}

func TestFetchQuotes_SendsSingleJSONGet(t *testing.T) {
	var calls atomic.Int32

	qc := setupQuoteClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/qt-data", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		respond(http.StatusOK, `[{"id":1,"text":"A","author":"X"},{"text":"B","author":"Y"}]`)(w, r)
	})

	quotes, err := qc.FetchQuotes(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, calls.Load())
	require.Len(t, quotes, 2)
	assert.Equal(t, domain.Quote{ID: 1, Text: "A", Author: "X", Published: true, Order: 0}, quotes[0])
	assert.Equal(t, domain.Quote{Text: "B", Author: "Y", Published: true, Order: 1}, quotes[1])
}

func TestFetchQuotes_FalsyPayloads(t *testing.T) {
	for _, body := range []string{"", "   \n", "null", "false", "0", `""`, "[]"} {
		t.Run(body, func(t *testing.T) {
			qc := setupQuoteClient(t, respond(http.StatusOK, body))

			quotes, err := qc.FetchQuotes(context.Background())
			require.NoError(t, err)
			assert.Empty(t, quotes)
		})
	}
}

func TestFetchQuotes_UnexpectedPayloads(t *testing.T) {
	for _, body := range []string{`{"text":"A"}`, "true", "42", `"quotes"`, "[{", "not json"} {
		t.Run(body, func(t *testing.T) {
			qc := setupQuoteClient(t, respond(http.StatusOK, body))

			quotes, err := qc.FetchQuotes(context.Background())
			require.ErrorContains(t, err, "decoding quote list")
			assert.Nil(t, quotes)
		})
	}
}

func TestFetchQuotes_OversizedPayload(t *testing.T) {
	// Padding keeps the body valid JSON, so a truncated read would decode it
	// as an empty list.
	body := strings.Repeat(" ", maxPayloadBytes) + `[{"id":1,"text":"A","author":"B"}]`
	qc := setupQuoteClient(t, respond(http.StatusOK, body))

	quotes, err := qc.FetchQuotes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.ErrorContains(t, err, "exceeds")
	assert.Nil(t, quotes)
}

func TestFetchQuotes_PayloadAtLimit(t *testing.T) {
	list := `[{"id":1,"text":"A","author":"B"}]`
	body := strings.Repeat(" ", maxPayloadBytes-len(list)) + list
	qc := setupQuoteClient(t, respond(http.StatusOK, body))

	quotes, err := qc.FetchQuotes(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "A", quotes[0].Text)
}

func TestFetchQuotes_SkipsQuotesWithoutText(t *testing.T) {
	qc := setupQuoteClient(t, respond(http.StatusOK, `[{"text":" ","author":"X"},{"text":"B","author":"Y"}]`))

	quotes, err := qc.FetchQuotes(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "B", quotes[0].Text)
	assert.Equal(t, 0, quotes[0].Order)
}

func TestFetchQuotes_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		errCheck func(error) bool
	}{
		{name: "not found", status: http.StatusNotFound, errCheck: domain.IsNotFound},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":{"code":"BAD","message":"nope"}}`, errCheck: domain.IsValidation},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, errCheck: domain.IsValidation},
		{name: "server error", status: http.StatusInternalServerError, errCheck: domain.IsUnavailable},
		{name: "unavailable", status: http.StatusServiceUnavailable, errCheck: domain.IsUnavailable},
		{name: "rate limited", status: http.StatusTooManyRequests, errCheck: domain.IsUnavailable},
		{name: "unauthorized", status: http.StatusUnauthorized, errCheck: domain.IsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32

			qc := setupQuoteClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				respond(tt.status, tt.body)(w, r)
			})

			quotes, err := qc.FetchQuotes(context.Background())
			require.Error(t, err)
			assert.True(t, tt.errCheck(err), "unexpected error kind: %v", err)
			assert.Nil(t, quotes)
			assert.EqualValues(t, 1, calls.Load(), "failed requests are not retried")
		})
	}
}

func TestFetchQuotes_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	qc := NewQuoteClient(QuoteClientConfig{Client: newTestClient(t, url), Logger: discardLogger()})

	_, err := qc.FetchQuotes(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestQuoteClient_Check(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		qc := setupQuoteClient(t, respond(http.StatusOK, "[]"))
		require.NoError(t, qc.Check(context.Background()))
	})

	t.Run("unhealthy", func(t *testing.T) {
		qc := setupQuoteClient(t, respond(http.StatusBadGateway, ""))

		err := qc.Check(context.Background())
		require.Error(t, err)
		assert.True(t, domain.IsUnavailable(err))
	})
}
