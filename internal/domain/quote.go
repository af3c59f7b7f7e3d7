// Package domain contains core business entities and rules.
package domain

import "strings"

// Quote is a quotation and its attribution.
// Quotes are immutable once loaded; nothing in the service edits one in place.
type Quote struct {
	// ID is the store identifier. Zero for quotes that were never stored.
	ID int64

	// Text is the body of the quotation.
	Text string

	// Author is who the quotation is attributed to.
	Author string

	// Published marks the quote as visible on the public API.
	Published bool

	// Order is the position of the quote in the public list.
	Order int
}

// Validate checks the business rules for a quote.
func (q *Quote) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("text", "must not be blank")
	}

	if strings.TrimSpace(q.Author) == "" {
		return NewValidationError("author", "must not be blank")
	}

	if q.Order < 0 {
		return NewValidationErrorWithValue("order", "must not be negative", q.Order)
	}

	return nil
}

// Equal reports whether two quotes show the same text and attribution.
func (q Quote) Equal(other Quote) bool {
	return q.Text == other.Text && q.Author == other.Author
}
