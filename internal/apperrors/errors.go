package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but lacks the required role.
var ErrForbidden = errors.New("forbidden")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// Exchange-specific error kinds.
var (
	// ErrRateNotFound is returned when a non-base currency has no effective rate.
	ErrRateNotFound = errors.New("exchange rate not found")
	// ErrInsufficientTill is returned when a till cannot cover a payout.
	ErrInsufficientTill = errors.New("insufficient cash in till")
	// ErrAmountExceedsConvertible is returned when a fixed target amount is more than the sold amount buys.
	ErrAmountExceedsConvertible = errors.New("requested amount exceeds convertible amount")
	// ErrSameCurrency is returned when source and target currency are identical.
	ErrSameCurrency = errors.New("source and target currency must differ")
	// ErrReferentialIntegrity is returned when deleting a row still referenced by history.
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	// ErrCurrencyArchived is returned when an archived currency is used for a new exchange.
	ErrCurrencyArchived = errors.New("currency is archived")
)

// AppError carries an HTTP-ish status code and a human readable message on top
// of an underlying error kind.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError returns an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewInsufficientTillError reports which till was short and by how much was requested.
func NewInsufficientTillError(currencyName string, requested, available fmt.Stringer) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("till for %s cannot pay out %s, available %s", currencyName, requested, available),
		Err:     ErrInsufficientTill,
	}
}

// StatusCode maps an error to the HTTP status it should be reported with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrSameCurrency), errors.Is(err, ErrCurrencyArchived):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrReferentialIntegrity):
		return http.StatusConflict
	case errors.Is(err, ErrRateNotFound), errors.Is(err, ErrInsufficientTill), errors.Is(err, ErrAmountExceedsConvertible):
		return http.StatusUnprocessableEntity
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
