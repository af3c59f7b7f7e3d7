package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-rotator/internal/app"
	"github.com/jsamuelsen/quote-rotator/internal/domain"
	"github.com/jsamuelsen/quote-rotator/internal/mocks"
)

var storedQuotes = []domain.Quote{
	{ID: 1, Text: "Simplicity is prerequisite for reliability.", Author: "Edsger W. Dijkstra", Published: true, Order: 0},
	{ID: 2, Text: "Programs must be written for people to read.", Author: "Harold Abelson", Published: true, Order: 1},
	{ID: 3, Text: "Talk is cheap. Show me the code.", Author: "Linus Torvalds", Published: true, Order: 2},
}

type stubCurrent struct {
	quote   domain.Quote
	shownAt time.Time
	ok      bool
}

func (s stubCurrent) Current() (domain.Quote, time.Time, bool) {
	return s.quote, s.shownAt, s.ok
}

func newTestService(t *testing.T) (*app.QuoteService, *mocks.MockQuoteRepository) {
	t.Helper()

	repo := mocks.NewMockQuoteRepository(t)

	return app.NewQuoteService(app.QuoteServiceConfig{
		Repository: repo,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}), repo
}

// newTestEngine mounts every handler on a fresh engine the way the router does.
func newTestEngine(t *testing.T, quotes *QuoteHandler, menu *MenuHandler, page *PageHandler) *gin.Engine {
	t.Helper()

	engine := gin.New()

	tmpl, err := PageTemplate()
	require.NoError(t, err)
	engine.SetHTMLTemplate(tmpl)

	if quotes != nil {
		engine.GET("/api/qt-data", quotes.QuoteData)
	}

	api := engine.Group("/api/v1")

	if quotes != nil {
		quotes.RegisterRoutes(api)
	}

	if menu != nil {
		menu.RegisterRoutes(api)
	}

	if page != nil {
		page.RegisterRoutes(engine)
	}

	return engine
}

func do(engine *gin.Engine, method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func menuCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == MenuCookieName {
			return c
		}
	}

	require.FailNow(t, "menu cookie not set", strings.Join(w.Header().Values("Set-Cookie"), "; "))

	return nil
}
