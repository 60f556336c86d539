package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ExchangeTransactionFilter narrows a history listing.
type ExchangeTransactionFilter struct {
	OperatorID string // Empty lists every operator's transactions
	Limit      int
	// Keyset cursor: only rows strictly older than (BeforeCreatedAt, BeforeID) are returned.
	BeforeCreatedAt *time.Time
	BeforeID        string
}

// ExchangeTransactionReader defines read operations for the exchange ledger
type ExchangeTransactionReader interface {
	// FindExchangeTransactionByID retrieves one ledger entry with display names.
	FindExchangeTransactionByID(ctx context.Context, transactionID string) (*domain.ExchangeTransactionView, error)

	// ListExchangeTransactions retrieves ledger entries newest first.
	ListExchangeTransactions(ctx context.Context, filter ExchangeTransactionFilter) ([]domain.ExchangeTransactionView, error)
}

// ExchangeTransactionWriter defines write operations for the exchange ledger
type ExchangeTransactionWriter interface {
	// SaveExchangeTransactionsInTx inserts ledger entries within the transaction.
	SaveExchangeTransactionsInTx(ctx context.Context, tx pgx.Tx, transactions []domain.ExchangeTransaction) error

	// DeleteExchangeTransaction removes a ledger entry. Till balances are not touched.
	DeleteExchangeTransaction(ctx context.Context, transactionID string) error
}

// ExchangeTransactionRepositoryFacade combines all ledger repository interfaces
type ExchangeTransactionRepositoryFacade interface {
	ExchangeTransactionReader
	ExchangeTransactionWriter
}
