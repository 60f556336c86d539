package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/utils/pagination"
)

const (
	defaultHistoryPageSize = 50
	maxHistoryPageSize     = 500
)

type historyService struct {
	BaseService
	transactionRepo portsrepo.ExchangeTransactionRepositoryFacade
}

// NewHistoryService creates the service that reads and prunes the exchange ledger.
func NewHistoryService(transactionRepo portsrepo.ExchangeTransactionRepositoryFacade) portssvc.HistorySvcFacade {
	return &historyService{transactionRepo: transactionRepo}
}

var _ portssvc.HistorySvcFacade = (*historyService)(nil)

func (s *historyService) ListTransactions(ctx context.Context, requester domain.User, limit int, nextToken *pagination.Cursor) ([]domain.ExchangeTransactionView, *pagination.Cursor, error) {
	// Clamp the page size
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}
	if limit > maxHistoryPageSize {
		limit = maxHistoryPageSize
	}

	filter := portsrepo.ExchangeTransactionFilter{Limit: limit}
	// Operators only see their own entries
	if requester.Role != domain.RoleAdmin {
		filter.OperatorID = requester.UserID
	}
	if nextToken != nil {
		createdAt := nextToken.CreatedAt
		filter.BeforeCreatedAt = &createdAt
		filter.BeforeID = nextToken.ID
	}

	txns, err := s.transactionRepo.ListExchangeTransactions(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions in service: %w", err)
	}
	if txns == nil {
		txns = []domain.ExchangeTransactionView{}
	}

	// A full page means there may be more; continue after its last row
	var next *pagination.Cursor
	if len(txns) == limit {
		last := txns[len(txns)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.TransactionID}
	}
	return txns, next, nil
}

func (s *historyService) GetTransaction(ctx context.Context, requester domain.User, transactionID string) (*domain.ExchangeTransactionView, error) {
	txn, err := s.transactionRepo.FindExchangeTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
		}
		return nil, fmt.Errorf("failed to get transaction in service: %w", err)
	}
	// Operators cannot tell other operators' entries from missing ones
	if requester.Role != domain.RoleAdmin && txn.OperatorID != requester.UserID {
		return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
	}
	return txn, nil
}

func (s *historyService) DeleteTransaction(ctx context.Context, transactionID string) error {
	// Tills are left as they are
	if err := s.transactionRepo.DeleteExchangeTransaction(ctx, transactionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("transaction " + transactionID + " not found")
		}
		return fmt.Errorf("failed to delete transaction in service: %w", err)
	}
	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}
