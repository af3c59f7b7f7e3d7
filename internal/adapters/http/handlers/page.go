package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-rotator/internal/app"
	"github.com/jsamuelsen/quote-rotator/internal/domain"
	"github.com/jsamuelsen/quote-rotator/internal/platform/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTemplateName is the name of the page template.
const PageTemplateName = "index.html"

// PageTemplate parses the embedded page templates for gin's SetHTMLTemplate.
func PageTemplate() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// PageHandlerConfig configures a PageHandler.
type PageHandlerConfig struct {
	Title   string
	Service *app.QuoteService

	// Current is the server-side rotator board. Optional.
	Current CurrentQuote

	Menu *MenuHandler

	// FoldMarker is the class hidden by the page stylesheet.
	FoldMarker string

	// Interval is how often the page polls the current quote.
	Interval time.Duration
}

// PageHandler renders the page: the navigation menu and the displayed quote.
type PageHandler struct {
	title      string
	service    *app.QuoteService
	current    CurrentQuote
	menu       *MenuHandler
	foldMarker string
	interval   time.Duration
}

// NewPageHandler creates a page handler.
func NewPageHandler(cfg PageHandlerConfig) *PageHandler {
	h := &PageHandler{
		title:      cfg.Title,
		service:    cfg.Service,
		current:    cfg.Current,
		menu:       cfg.Menu,
		foldMarker: cfg.FoldMarker,
		interval:   cfg.Interval,
	}

	if h.title == "" {
		h.title = "Quotes"
	}

	if h.menu == nil {
		h.menu = NewMenuHandler(MenuHandlerConfig{})
	}

	if h.foldMarker == "" {
		h.foldMarker = app.DefaultMenuFoldMarker
	}

	if h.interval <= 0 {
		h.interval = app.DefaultRotationInterval
	}

	return h
}

type pageData struct {
	Title          string
	Quote          domain.Quote
	MenuClass      string
	FoldMarker     string
	Folded         bool
	CurrentURL     string
	IntervalMillis int64
}

// Page handles GET /.
func (h *PageHandler) Page(c *gin.Context) {
	el := h.menu.Element(c)

	c.HTML(http.StatusOK, PageTemplateName, pageData{
		Title:          h.title,
		Quote:          h.displayed(c),
		MenuClass:      el.Class,
		FoldMarker:     h.foldMarker,
		Folded:         h.menu.Toggler().State(el) == domain.MenuFolded,
		CurrentURL:     "/api/v1/quotes/current",
		IntervalMillis: h.interval.Milliseconds(),
	})
}

// displayed is the board quote, or the first published quote before the
// first rotation. Store errors leave the quotation blank.
func (h *PageHandler) displayed(c *gin.Context) domain.Quote {
	if h.current != nil {
		if q, _, ok := h.current.Current(); ok {
			return q
		}
	}

	if h.service == nil {
		return domain.Quote{}
	}

	quotes, err := h.service.ListQuotes(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).WarnContext(c.Request.Context(), "page rendered without a quote",
			slog.Any("error", err),
		)

		return domain.Quote{}
	}

	if len(quotes) == 0 {
		return domain.Quote{}
	}

	return quotes[0]
}

// RegisterRoutes mounts the page and the form toggle.
func (h *PageHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/", h.Page)
	engine.POST("/menu/toggle", h.menu.Toggle)
}
