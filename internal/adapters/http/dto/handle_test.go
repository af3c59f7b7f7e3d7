package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-rotator/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
		details    map[string]string
	}{
		{
			name:       "not found",
			err:        domain.NewNotFoundError("quote", "42"),
			wantStatus: http.StatusNotFound,
			wantCode:   ErrorCodeNotFound,
			wantMsg:    `quote "42" not found`,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("loading: %w", domain.NewNotFoundError("quote", "7")),
			wantStatus: http.StatusNotFound,
			wantCode:   ErrorCodeNotFound,
			wantMsg:    `loading: quote "7" not found`,
		},
		{
			name:       "validation with field",
			err:        domain.NewValidationError("id", "must be a positive integer"),
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidation,
			wantMsg:    "validation failed for id: must be a positive integer",
			details:    map[string]string{"id": "must be a positive integer"},
		},
		{
			name:       "unavailable",
			err:        domain.NewUnavailableError("quote-api", "connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   ErrorCodeUnavailable,
			wantMsg:    `service "quote-api" unavailable: connection refused`,
		},
		{
			name:       "unknown",
			err:        errors.New("sql: connection is already closed"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrorCodeInternal,
			wantMsg:    "an internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Equal(t, tt.details, resp.Error.Details)
		})
	}

	status, resp := MapDomainError(nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "domain", err: domain.NewNotFoundError("quote", "1"), wantStatus: http.StatusNotFound, wantCode: ErrorCodeNotFound},
		{name: "binding", err: fmt.Errorf("%w: strconv.ParseInt: invalid syntax", ErrBinding), wantStatus: http.StatusBadRequest, wantCode: ErrorCodeValidation},
		{name: "cursor", err: ErrInvalidCursor, wantStatus: http.StatusBadRequest, wantCode: ErrorCodeValidation},
		{name: "internal", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: ErrorCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Empty(t, resp.TraceID)
		})
	}
}

func TestHandleError_StructValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, Validate(&QuoteIDRequest{ID: -1}))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "must be greater than 0", resp.Error.Details["id"])
}

func TestHandleError_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, nil)

	assert.False(t, c.IsAborted())
	assert.Zero(t, w.Body.Len())
}
