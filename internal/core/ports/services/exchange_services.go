package services

import (
	"context"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/utils/pagination"
)

// ExchangeSvcFacade prices and records cash exchanges.
type ExchangeSvcFacade interface {
	// QuoteExchange prices an exchange against current rates and tills without recording it.
	QuoteExchange(ctx context.Context, req dto.ExchangeRequest) ([]domain.ExchangeQuote, error)

	// PerformExchange records an exchange and adjusts the tills in one transaction.
	PerformExchange(ctx context.Context, req dto.ExchangeRequest, operatorID string) (*domain.ExchangeResult, error)
}

// HistorySvcFacade exposes the exchange ledger.
type HistorySvcFacade interface {
	// ListTransactions lists ledger entries newest first. Operators only see their own.
	ListTransactions(ctx context.Context, requester domain.User, limit int, nextToken *pagination.Cursor) ([]domain.ExchangeTransactionView, *pagination.Cursor, error)

	// GetTransaction retrieves one ledger entry visible to the requester.
	GetTransaction(ctx context.Context, requester domain.User, transactionID string) (*domain.ExchangeTransactionView, error)

	// DeleteTransaction removes a ledger entry without reversing its till adjustments.
	DeleteTransaction(ctx context.Context, transactionID string) error
}
