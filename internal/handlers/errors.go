package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// clientVisibleErrors are error kinds whose own text is safe to return to the caller.
var clientVisibleErrors = []error{
	apperrors.ErrRateNotFound,
	apperrors.ErrInsufficientTill,
	apperrors.ErrAmountExceedsConvertible,
	apperrors.ErrSameCurrency,
	apperrors.ErrCurrencyArchived,
	apperrors.ErrReferentialIntegrity,
	apperrors.ErrRefreshTokenExpired,
	apperrors.ErrUnauthorized,
	apperrors.ErrForbidden,
	apperrors.ErrDuplicate,
	apperrors.ErrNotFound,
	apperrors.ErrValidation,
}

// respondError writes err with the status its kind maps to. Unexpected errors are logged
// and answered with msg only; other errors carry the AppError message or the kind's text.
func respondError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()), slog.Int("status", status))
		if status != http.StatusInternalServerError {
			msg = clientMessage(err, msg)
		}
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}

	logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, ErrorResponse{Error: clientMessage(err, msg)})
}

func clientMessage(err error, fallback string) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	for _, kind := range clientVisibleErrors {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return fallback
}

// bindError answers a request whose body or query failed to bind.
func bindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error()})
}
