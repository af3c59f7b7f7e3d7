package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-rotator/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-rotator/internal/app"
	"github.com/jsamuelsen/quote-rotator/internal/domain"
)

// CurrentQuote reads the quote last shown by the server-side rotator.
// *display.Board implements it.
type CurrentQuote interface {
	Current() (q domain.Quote, shownAt time.Time, ok bool)
}

// QuoteHandler serves the quote API.
type QuoteHandler struct {
	service *app.QuoteService
	current CurrentQuote
}

// NewQuoteHandler creates a quote handler. current may be nil when the
// server-side rotator is disabled; /quotes/current then always answers 404.
func NewQuoteHandler(service *app.QuoteService, current CurrentQuote) *QuoteHandler {
	return &QuoteHandler{service: service, current: current}
}

// QuoteData handles GET /api/qt-data: every published quote as
// [{id,text,author}], and [] when there is none.
func (h *QuoteHandler) QuoteData(c *gin.Context) {
	quotes, err := h.service.ListQuotes(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuoteDataFromDomain(quotes))
}

// ListQuotes handles GET /api/v1/quotes?limit=&cursor=.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var req dto.PaginationRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	cursor, err := req.DecodeCursor()
	if err != nil && !errors.Is(err, dto.ErrNoCursor) {
		dto.HandleError(c, err)
		return
	}

	quotes, err := h.service.ListQuotes(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	page, next, more := dto.PageQuotes(quotes, cursor, req.GetLimit())

	c.JSON(http.StatusOK, dto.QuoteListResponse{
		Quotes:     dto.QuotesFromDomain(page),
		Count:      len(page),
		NextCursor: next,
		HasMore:    more,
	})
}

// CurrentQuote handles GET /api/v1/quotes/current.
func (h *QuoteHandler) CurrentQuote(c *gin.Context) {
	if h.current == nil {
		dto.HandleError(c, domain.NewNotFoundError("current quote", ""))
		return
	}

	q, shownAt, ok := h.current.Current()
	if !ok {
		dto.HandleError(c, domain.NewNotFoundError("current quote", ""))
		return
	}

	c.JSON(http.StatusOK, dto.CurrentQuoteResponse{
		QuoteResponse: dto.QuoteFromDomain(&q),
		ShownAt:       shownAt.UTC().Format(time.RFC3339),
	})
}

// GetQuoteByID handles GET /api/v1/quotes/:id.
func (h *QuoteHandler) GetQuoteByID(c *gin.Context) {
	var req dto.QuoteIDRequest
	if err := dto.BindURIAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	q, err := h.service.GetQuoteByID(c.Request.Context(), req.ID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuoteFromDomain(q))
}

// GetQuoteByOrder handles GET /api/v1/quotes/order/:order.
func (h *QuoteHandler) GetQuoteByOrder(c *gin.Context) {
	var req dto.QuoteOrderRequest
	if err := dto.BindURIAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	q, err := h.service.GetQuoteByOrder(c.Request.Context(), req.Order)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.QuoteFromDomain(q))
}

// RegisterRoutes mounts the versioned quote routes on api (/api/v1).
func (h *QuoteHandler) RegisterRoutes(api *gin.RouterGroup) {
	quotes := api.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.GET("/current", h.CurrentQuote)
	quotes.GET("/order/:order", h.GetQuoteByOrder)
	quotes.GET("/:id", h.GetQuoteByID)
}
