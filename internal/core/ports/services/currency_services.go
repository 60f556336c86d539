package services

import (
	"context"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/shopspring/decimal"
)

// CurrencyReaderSvc defines read operations for currency (till) data
type CurrencyReaderSvc interface {
	// GetCurrencyByID retrieves a specific currency by its ID.
	GetCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error)

	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves currencies, optionally including archived ones.
	ListCurrencies(ctx context.Context, includeArchived bool) ([]domain.Currency, error)
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency opens a till for a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)

	// TopUpCurrency adds cash to a till.
	TopUpCurrency(ctx context.Context, currencyID string, amount decimal.Decimal, userID string) (*domain.Currency, error)

	// ArchiveCurrency hides a currency from new exchanges. The base currency cannot be archived.
	ArchiveCurrency(ctx context.Context, currencyID string, userID string) error

	// UnarchiveCurrency makes an archived currency available again.
	UnarchiveCurrency(ctx context.Context, currencyID string, userID string) error

	// DeleteCurrency removes a currency that no transaction references.
	DeleteCurrency(ctx context.Context, currencyID string) error
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}
