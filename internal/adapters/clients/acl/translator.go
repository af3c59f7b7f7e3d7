package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-rotator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-rotator/internal/domain"
)

// maxPayloadBytes caps how much of a response body is read. A larger body
// is rejected rather than truncated.
const maxPayloadBytes = 4 << 20

// errUnexpectedPayload is returned for a JSON body that is neither falsy nor a list.
var errUnexpectedPayload = errors.New("unexpected payload")

// BaseAdapter holds the client and service name shared by ACL adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a base adapter.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{client: client, serviceName: serviceName}
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// GetJSON performs one GET declaring JSON in both Accept and Content-Type,
// and returns the raw body of a 2xx response. Any other outcome is a
// domain error.
func (a *BaseAdapter) GetJSON(ctx context.Context, path, operation string) ([]byte, error) {
	req, err := a.client.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(ctx, req)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation, "")
	}
	defer func() { _ = resp.Body.Close() }()

	if mapped := MapHTTPError(resp, nil, a.serviceName, operation, path); mapped != nil {
		return nil, mapped
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		return nil, domain.NewUnavailableError(a.serviceName, fmt.Sprintf("reading %s response: %v", operation, err))
	}

	if len(body) > maxPayloadBytes {
		return nil, domain.NewUnavailableError(a.serviceName,
			fmt.Sprintf("%s response exceeds %d bytes", operation, maxPayloadBytes))
	}

	return body, nil
}

// quoteDTO is one element of the quote API list.
type quoteDTO struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

// decodeQuoteList decodes a quote list body. Falsy JSON (null, false, 0,
// "") and an empty body decode to an empty list.
func decodeQuoteList(body []byte) ([]quoteDTO, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var probe any
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("decoding quote list: %w", err)
	}

	if isFalsy(probe) {
		return nil, nil
	}

	if _, ok := probe.([]any); !ok {
		return nil, fmt.Errorf("decoding quote list: %w: %T", errUnexpectedPayload, probe)
	}

	var dtos []quoteDTO
	if err := json.Unmarshal(trimmed, &dtos); err != nil {
		return nil, fmt.Errorf("decoding quote list: %w", err)
	}

	return dtos, nil
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case float64:
		return x == 0
	default:
		return false
	}
}

func translateQuote(dto *quoteDTO) domain.Quote {
	return domain.Quote{
		ID:        dto.ID,
		Text:      dto.Text,
		Author:    dto.Author,
		Published: true,
	}
}
