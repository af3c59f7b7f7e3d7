package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-rotator/internal/domain"
	"github.com/jsamuelsen/quote-rotator/internal/platform/logging"
)

// MapDomainError maps a domain error to a status code and error envelope.
// Unknown errors become a 500 with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	switch {
	case err == nil:
		return http.StatusOK, nil

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var ve *domain.ValidationError
		if errors.As(err, &ve) && ve.Field != "" {
			resp.Error.Details = map[string]string{ve.Field: ve.Message}
		}

		return http.StatusBadRequest, resp

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, err.Error())

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}
}

// HandleError aborts the request with the envelope of err and the trace ID
// when there is one. Binding, struct validation and cursor failures are 400
// VALIDATION_ERROR.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	ctx := c.Request.Context()

	var (
		status int
		resp   *ErrorResponse
	)

	switch {
	case errors.Is(err, ErrBinding):
		status, resp = http.StatusBadRequest, NewErrorResponse(ErrorCodeValidation, "invalid request parameters")
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidCursor):
		status, resp = http.StatusBadRequest, NewErrorResponseWithDetails(
			ErrorCodeValidation, "request validation failed", ValidationErrors(err))
	default:
		status, resp = MapDomainError(err)
	}

	resp.WithTraceID(TraceIDFromContext(ctx))

	if status == http.StatusInternalServerError {
		logging.FromContext(ctx).ErrorContext(ctx, "internal error", slog.Any("error", err))
	}

	c.AbortWithStatusJSON(status, resp)
}
