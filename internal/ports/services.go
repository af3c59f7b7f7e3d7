// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, so the application layer
// depends on abstractions rather than on HTTP, SQLite or a terminal.
//
// Port design:
//   - Context as first parameter on every blocking call
//   - Return domain types, never external DTOs
//   - Errors use domain error types (ErrNotFound, ErrUnavailable, ...)
package ports

import (
	"context"

	"github.com/jsamuelsen/quote-rotator/internal/domain"
)

// QuoteSource supplies the list of quotes a rotator cycles through.
// It is read once per rotator start.
type QuoteSource interface {
	// FetchQuotes returns every quote that may be displayed.
	// A nil or empty slice with a nil error means there is nothing to display.
	// Returns domain.ErrUnavailable if the source cannot be reached.
	FetchQuotes(ctx context.Context) ([]domain.Quote, error)
}

// QuoteDisplay is where a rotated quote is shown.
type QuoteDisplay interface {
	// Show replaces the displayed quotation with q.Text and the attribution with q.Author.
	Show(ctx context.Context, q domain.Quote) error
}

// QuoteRepository is the read side of quote storage plus the seeding insert.
type QuoteRepository interface {
	// ListPublished returns published quotes ordered by Order, then ID.
	ListPublished(ctx context.Context) ([]domain.Quote, error)

	// GetByID returns a published quote.
	// Returns domain.ErrNotFound if it does not exist or is not published.
	GetByID(ctx context.Context, id int64) (*domain.Quote, error)

	// GetByOrder returns the published quote at the given order position.
	// Returns domain.ErrNotFound if there is none.
	GetByOrder(ctx context.Context, order int) (*domain.Quote, error)

	// Insert stores a new quote and sets its ID.
	// Returns domain.ErrValidation if the quote breaks a business rule.
	Insert(ctx context.Context, q *domain.Quote) error

	// InsertAll stores quotes in one transaction and sets their IDs.
	// On error nothing is stored.
	InsertAll(ctx context.Context, quotes []domain.Quote) error

	// Count returns the number of stored quotes, published or not.
	Count(ctx context.Context) (int, error)
}

// ClassElement is an element whose class attribute can be read and replaced,
// such as the navigation menu.
type ClassElement interface {
	ClassName() string
	SetClassName(className string)
}
