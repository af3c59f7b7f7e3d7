package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/jsamuelsen/quote-rotator/internal/domain"
)

// DefaultLimit is the page size when none is given.
const DefaultLimit = 20

// MaxLimit is the largest accepted page size.
const MaxLimit = 100

var (
	// ErrInvalidCursor is returned when cursor decoding fails.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor signals a first page request.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest is the query of GET /api/v1/quotes.
type PaginationRequest struct {
	// Cursor is the NextCursor of a previous page.
	Cursor string `form:"cursor" json:"cursor"`

	Limit int `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// DecodeCursor decodes the request cursor. Returns ErrNoCursor when empty.
func (p *PaginationRequest) DecodeCursor() (*CursorData, error) {
	return DecodeCursor(p.Cursor)
}

// CursorData is the position after the last quote of a page. Quotes are
// listed by order then ID, so the pair is a stable key.
type CursorData struct {
	Order int   `json:"o"`
	ID    int64 `json:"id"`
}

// After reports whether (order, id) sorts after the cursor.
func (c *CursorData) After(order int, id int64) bool {
	if order != c.Order {
		return order > c.Order
	}

	return id > c.ID
}

// EncodeCursor encodes cursor data to a URL-safe string.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(raw)
}

// DecodeCursor decodes a cursor produced by EncodeCursor.
// Returns ErrNoCursor if encoded is empty.
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}

// PageQuotes returns up to limit quotes sorted after cursor (nil for the
// first page), the cursor of the next page and whether there is one.
// quotes must be sorted by order then ID.
func PageQuotes(quotes []domain.Quote, cursor *CursorData, limit int) ([]domain.Quote, string, bool) {
	start := 0
	if cursor != nil {
		for start < len(quotes) && !cursor.After(quotes[start].Order, quotes[start].ID) {
			start++
		}
	}

	rest := quotes[start:]
	if len(rest) <= limit {
		return rest, "", false
	}

	page := rest[:limit]
	last := page[len(page)-1]

	return page, EncodeCursor(&CursorData{Order: last.Order, ID: last.ID}), true
}
