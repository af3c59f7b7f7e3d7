package acl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/quote-rotator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-rotator/internal/domain"
	"github.com/jsamuelsen/quote-rotator/internal/ports"
)

// DefaultQuotePath is the quote list endpoint served by the quote API.
const DefaultQuotePath = "/api/qt-data"

// Compile-time interface checks.
var (
	_ ports.QuoteSource   = (*QuoteClient)(nil)
	_ ports.HealthChecker = (*QuoteClient)(nil)
)

// QuoteClientConfig contains configuration for the quote API adapter.
type QuoteClientConfig struct {
	// Client is the HTTP client pointed at the quote API origin. Required.
	Client *clients.Client

	// Path of the quote list, relative to the client base URL.
	// Defaults to DefaultQuotePath.
	Path string

	Logger *slog.Logger
}

// QuoteClient reads the quote list from a remote quote API.
type QuoteClient struct {
	BaseAdapter
	path   string
	logger *slog.Logger
}

// NewQuoteClient creates a quote API adapter. It panics if Client is nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("acl: quote client requires a Client")
	}

	path := cfg.Path
	if path == "" {
		path = DefaultQuotePath
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, "quote-api"),
		path:        path,
		logger:      logger,
	}
}

// Path returns the quote list path.
func (c *QuoteClient) Path() string {
	return c.path
}

// FetchQuotes performs a single GET of the quote list.
// A falsy or empty body yields an empty list. Entries without text are
// dropped with a warning.
func (c *QuoteClient) FetchQuotes(ctx context.Context) ([]domain.Quote, error) {
	body, err := c.GetJSON(ctx, c.path, "fetch quotes")
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to fetch quotes",
			slog.String("path", c.path),
			slog.Any("error", err),
		)

		return nil, err
	}

	dtos, err := decodeQuoteList(body)
	if err != nil {
		c.logger.ErrorContext(ctx, "quote api returned an unreadable payload",
			slog.String("path", c.path),
			slog.Any("error", err),
		)

		return nil, err
	}

	quotes := make([]domain.Quote, 0, len(dtos))

	for i := range dtos {
		q := translateQuote(&dtos[i])
		if strings.TrimSpace(q.Text) == "" {
			c.logger.WarnContext(ctx, "skipping quote without text",
				slog.Int("index", i),
				slog.Int64("quote_id", q.ID),
			)

			continue
		}

		q.Order = len(quotes)
		quotes = append(quotes, q)
	}

	c.logger.DebugContext(ctx, "fetched quotes", slog.Int("count", len(quotes)))

	return quotes, nil
}

// Name implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.ServiceName()
}

// Check implements ports.HealthChecker; the quote list must answer 2xx.
func (c *QuoteClient) Check(ctx context.Context) error {
	_, err := c.GetJSON(ctx, c.path, "health check")

	return err
}
