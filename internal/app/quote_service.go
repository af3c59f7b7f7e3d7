// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jsamuelsen/quote-rotator/internal/domain"
	"github.com/jsamuelsen/quote-rotator/internal/ports"
)

// QuoteService orchestrates the read side of the quote API and seeding.
// It also implements ports.QuoteSource for the server-side rotator.
type QuoteService struct {
	repo   ports.QuoteRepository
	logger *slog.Logger
}

// QuoteServiceConfig contains the dependencies of a QuoteService.
type QuoteServiceConfig struct {
	Repository ports.QuoteRepository
	Logger     *slog.Logger
}

// NewQuoteService creates a quote service. It panics without a repository.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Repository == nil {
		panic("app: quote service requires a Repository")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{repo: cfg.Repository, logger: logger}
}

// ListQuotes returns the published quotes in display order.
func (s *QuoteService) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	quotes, err := s.repo.ListPublished(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list quotes", slog.Any("error", err))
		return nil, err
	}

	s.logger.DebugContext(ctx, "listed quotes", slog.Int("count", len(quotes)))

	return quotes, nil
}

// FetchQuotes implements ports.QuoteSource.
func (s *QuoteService) FetchQuotes(ctx context.Context) ([]domain.Quote, error) {
	return s.ListQuotes(ctx)
}

// GetQuoteByID returns one published quote. IDs start at 1.
func (s *QuoteService) GetQuoteByID(ctx context.Context, id int64) (*domain.Quote, error) {
	if id <= 0 {
		return nil, domain.NewValidationErrorWithValue("id", "must be a positive integer", id)
	}

	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logQueryError(ctx, "failed to get quote", err, slog.Int64("quote_id", id))
		return nil, err
	}

	return quote, nil
}

// GetQuoteByOrder returns the published quote at an order position.
func (s *QuoteService) GetQuoteByOrder(ctx context.Context, order int) (*domain.Quote, error) {
	if order < 0 {
		return nil, domain.NewValidationErrorWithValue("order", "must not be negative", order)
	}

	quote, err := s.repo.GetByOrder(ctx, order)
	if err != nil {
		s.logQueryError(ctx, "failed to get quote by order", err, slog.Int("order", order))
		return nil, err
	}

	return quote, nil
}

// Seed inserts quotes into an empty store and returns how many were inserted.
// A store that already holds quotes is left alone. Seeding is all or
// nothing: an invalid quote or a failed insert leaves the store empty.
func (s *QuoteService) Seed(ctx context.Context, quotes []domain.Quote) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting quotes: %w", err)
	}

	if n > 0 {
		s.logger.InfoContext(ctx, "quote store already seeded", slog.Int("existing", n))
		return 0, nil
	}

	for i := range quotes {
		if err := quotes[i].Validate(); err != nil {
			return 0, fmt.Errorf("seed quote %d: %w", i, err)
		}
	}

	if err := s.repo.InsertAll(ctx, slices.Clone(quotes)); err != nil {
		return 0, fmt.Errorf("inserting seed quotes: %w", err)
	}

	s.logger.InfoContext(ctx, "seeded quote store", slog.Int("count", len(quotes)))

	return len(quotes), nil
}

// logQueryError keeps expected misses at debug level.
func (s *QuoteService) logQueryError(ctx context.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs, slog.Any("error", err))

	if domain.IsNotFound(err) {
		s.logger.DebugContext(ctx, msg, attrs...)
		return
	}

	s.logger.ErrorContext(ctx, msg, attrs...)
}
