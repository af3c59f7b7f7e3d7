package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPageTemplate(t *testing.T) {
	tmpl, err := PageTemplate()
	require.NoError(t, err)
	assert.NotNil(t, tmpl.Lookup(PageTemplateName))
}

func TestPageHandler_RendersBoardQuote(t *testing.T) {
	svc, _ := newTestService(t)
	menu := newMenuHandler(true)
	page := NewPageHandler(PageHandlerConfig{
		Title:    "Quotes",
		Service:  svc,
		Current:  stubCurrent{quote: storedQuotes[2], shownAt: time.Now(), ok: true},
		Menu:     menu,
		Interval: 10 * time.Second,
	})

	w := do(newTestEngine(t, nil, menu, page), http.MethodGet, "/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, `<blockquote class="quotation">Talk is cheap. Show me the code.</blockquote>`)
	assert.Contains(t, body, `<p class="quote-author">Linus Torvalds</p>`)
	assert.Contains(t, body, `id="toggle-menu"`)
	assert.Contains(t, body, `<ul id="menu" class="navbar-list folded">`)
	assert.Contains(t, body, `aria-expanded="false"`)
	assert.Contains(t, body, "10000")
}

func TestPageHandler_FallsBackToFirstQuote(t *testing.T) {
	svc, repo := newTestService(t)
	repo.EXPECT().ListPublished(mock.Anything).Return(storedQuotes, nil)

	page := NewPageHandler(PageHandlerConfig{Service: svc, Current: stubCurrent{}})

	w := do(newTestEngine(t, nil, nil, page), http.MethodGet, "/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Simplicity is prerequisite for reliability.")
}

func TestPageHandler_StoreErrorRendersBlank(t *testing.T) {
	svc, repo := newTestService(t)
	repo.EXPECT().ListPublished(mock.Anything).Return(nil, errors.New("database is locked"))

	page := NewPageHandler(PageHandlerConfig{Service: svc})

	w := do(newTestEngine(t, nil, nil, page), http.MethodGet, "/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<blockquote class="quotation"></blockquote>`)
}

func TestPageHandler_MenuCookie(t *testing.T) {
	menu := newMenuHandler(true)
	page := NewPageHandler(PageHandlerConfig{Menu: menu, Current: stubCurrent{quote: storedQuotes[0], ok: true}})

	cookie := &http.Cookie{Name: MenuCookieName, Value: url.QueryEscape("navbar-list")}

	w := do(newTestEngine(t, nil, menu, page), http.MethodGet, "/", cookie)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<ul id="menu" class="navbar-list">`)
	assert.Contains(t, w.Body.String(), `aria-expanded="true"`)
}

func TestPageHandler_EscapesQuoteText(t *testing.T) {
	q := storedQuotes[0]
	q.Text = `<script>alert("x")</script>`

	page := NewPageHandler(PageHandlerConfig{Current: stubCurrent{quote: q, ok: true}})

	w := do(newTestEngine(t, nil, nil, page), http.MethodGet, "/")

	assert.NotContains(t, w.Body.String(), `<script>alert`)
	assert.Contains(t, w.Body.String(), "&lt;script&gt;")
}
