package dto

import "github.com/jsamuelsen/quote-rotator/internal/domain"

// QuoteData is one element of GET /api/qt-data, the list the page script reads.
type QuoteData struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

// QuoteResponse is a quote on the versioned API.
type QuoteResponse struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Order  int    `json:"order"`
}

// QuoteListResponse is the body of GET /api/v1/quotes.
type QuoteListResponse struct {
	Quotes     []QuoteResponse `json:"quotes"`
	Count      int             `json:"count"`
	NextCursor string          `json:"nextCursor,omitempty"`
	HasMore    bool            `json:"hasMore"`
}

// CurrentQuoteResponse is the body of GET /api/v1/quotes/current.
type CurrentQuoteResponse struct {
	QuoteResponse

	ShownAt string `json:"shownAt"`
}

// QuoteDataFromDomain converts quotes for /api/qt-data. The result is never nil.
func QuoteDataFromDomain(quotes []domain.Quote) []QuoteData {
	out := make([]QuoteData, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, QuoteData{ID: q.ID, Text: q.Text, Author: q.Author})
	}

	return out
}

// QuoteFromDomain converts a domain quote.
func QuoteFromDomain(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:     q.ID,
		Text:   q.Text,
		Author: q.Author,
		Order:  q.Order,
	}
}

// QuotesFromDomain converts a list of domain quotes. The result is never nil.
func QuotesFromDomain(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, QuoteFromDomain(&quotes[i]))
	}

	return out
}

// QuoteIDRequest binds the :id path parameter.
type QuoteIDRequest struct {
	ID int64 `uri:"id" json:"id" validate:"gt=0"`
}

// QuoteOrderRequest binds the :order path parameter.
type QuoteOrderRequest struct {
	Order int `uri:"order" json:"order" validate:"gte=0"`
}
