package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CurrencyReader defines read operations for currency (till) data
type CurrencyReader interface {
	// FindCurrencyByID retrieves a specific currency by its ID.
	FindCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error)

	// FindCurrencyByCode retrieves a specific currency by its code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// FindBaseCurrency retrieves the single currency flagged as base.
	FindBaseCurrency(ctx context.Context) (*domain.Currency, error)

	// ListCurrencies retrieves currencies ordered by name, optionally including archived ones.
	ListCurrencies(ctx context.Context, includeArchived bool) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	// SaveCurrency persists a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// AddCash adds amount to the till of a currency and returns the updated currency.
	AddCash(ctx context.Context, currencyID string, amount decimal.Decimal, userID string, now time.Time) (*domain.Currency, error)

	// SetCurrencyArchived archives or unarchives a currency.
	SetCurrencyArchived(ctx context.Context, currencyID string, archived bool, userID string, now time.Time) error

	// DeleteCurrency removes a currency and its rates. Fails with ErrReferentialIntegrity
	// when transactions reference it.
	DeleteCurrency(ctx context.Context, currencyID string) error
}

// CurrencyTxOperations defines currency operations that run inside a caller-owned transaction
type CurrencyTxOperations interface {
	// FindCurrenciesByIDsForUpdate locks the given currency rows, in ID order, and returns them keyed by ID.
	FindCurrenciesByIDsForUpdate(ctx context.Context, tx pgx.Tx, currencyIDs []string) (map[string]domain.Currency, error)

	// FindCurrencyByCodeForUpdate locks and returns the currency with the given code.
	FindCurrencyByCodeForUpdate(ctx context.Context, tx pgx.Tx, currencyCode string) (*domain.Currency, error)

	// SaveCurrencyInTx persists a new currency within the transaction.
	SaveCurrencyInTx(ctx context.Context, tx pgx.Tx, currency domain.Currency) error

	// UpdateCurrencyBalancesInTx applies signed deltas to till balances within the transaction.
	UpdateCurrencyBalancesInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, userID string, now time.Time) error
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces
// This is a facade for clients that need access to all operations
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
	CurrencyTxOperations
}

// CurrencyRepositoryWithTx extends CurrencyRepositoryFacade with transaction capabilities
type CurrencyRepositoryWithTx interface {
	CurrencyRepositoryFacade
	TransactionManager
}
