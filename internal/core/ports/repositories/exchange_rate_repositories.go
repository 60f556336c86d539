package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindExchangeRateByID retrieves a stored rate by its ID.
	FindExchangeRateByID(ctx context.Context, exchangeRateID string) (*domain.ExchangeRate, error)

	// FindEffectiveRate retrieves the rate of a currency in force on asOf.
	FindEffectiveRate(ctx context.Context, currencyID string, asOf time.Time) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves stored rates, newest first, joined with their currency.
	// An empty currencyID lists rates for all currencies.
	ListExchangeRates(ctx context.Context, currencyID string) ([]domain.ExchangeRateListing, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new exchange rate.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// DeleteExchangeRate removes a stored rate.
	DeleteExchangeRate(ctx context.Context, exchangeRateID string) error
}

// ExchangeRateTxOperations defines rate operations that run inside a caller-owned transaction
type ExchangeRateTxOperations interface {
	// FindEffectiveRateInTx is FindEffectiveRate within the transaction.
	FindEffectiveRateInTx(ctx context.Context, tx pgx.Tx, currencyID string, asOf time.Time) (*domain.ExchangeRate, error)

	// SaveExchangeRateInTx persists a new exchange rate within the transaction.
	SaveExchangeRateInTx(ctx context.Context, tx pgx.Tx, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
	ExchangeRateTxOperations
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
