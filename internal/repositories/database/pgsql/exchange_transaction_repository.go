package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_exchange_app/internal/models"
	"github.com/SscSPs/currency_exchange_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultTransactionPageSize = 50

const exchangeTransactionViewSelect = `
	SELECT t.transaction_id, t.group_id, t.leg_number, t.operator_id, t.currency_from_id, t.currency_to_id,
		t.amount, t.exchanged_amount, t.change_in_base, t.rate_from, t.rate_to, t.created_at,
		cf.name, ct.name, u.username
	FROM exchange_transactions t
	JOIN currencies cf ON cf.currency_id = t.currency_from_id
	JOIN currencies ct ON ct.currency_id = t.currency_to_id
	JOIN users u ON u.user_id = t.operator_id
`

type PgxExchangeTransactionRepository struct {
	BaseRepository
}

func newPgxExchangeTransactionRepository(pool *pgxpool.Pool) portsrepo.ExchangeTransactionRepositoryFacade {
	return &PgxExchangeTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeTransactionRepositoryFacade = (*PgxExchangeTransactionRepository)(nil)

func scanExchangeTransactionView(row pgx.Row) (domain.ExchangeTransactionView, error) {
	var m models.ExchangeTransaction
	var fromName, toName, username string
	err := row.Scan(
		&m.TransactionID,
		&m.GroupID,
		&m.LegNumber,
		&m.OperatorID,
		&m.CurrencyFromID,
		&m.CurrencyToID,
		&m.Amount,
		&m.ExchangedAmount,
		&m.ChangeInBase,
		&m.RateFrom,
		&m.RateTo,
		&m.CreatedAt,
		&fromName,
		&toName,
		&username,
	)
	if err != nil {
		return domain.ExchangeTransactionView{}, err
	}
	return domain.ExchangeTransactionView{
		ExchangeTransaction: mapping.ToDomainExchangeTransaction(m),
		CurrencyFromName:    fromName,
		CurrencyToName:      toName,
		OperatorUsername:    username,
	}, nil
}

// SaveExchangeTransactionsInTx inserts all legs of an exchange in one batch.
func (r *PgxExchangeTransactionRepository) SaveExchangeTransactionsInTx(ctx context.Context, tx pgx.Tx, transactions []domain.ExchangeTransaction) error {
	if len(transactions) == 0 {
		return nil
	}
	query := `
		INSERT INTO exchange_transactions (transaction_id, group_id, leg_number, operator_id, currency_from_id, currency_to_id,
			amount, exchanged_amount, change_in_base, rate_from, rate_to, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	batch := &pgx.Batch{}
	for _, t := range transactions {
		m := mapping.ToModelExchangeTransaction(t)
		batch.Queue(query,
			m.TransactionID,
			m.GroupID,
			m.LegNumber,
			m.OperatorID,
			m.CurrencyFromID,
			m.CurrencyToID,
			m.Amount,
			m.ExchangedAmount,
			m.ChangeInBase,
			m.RateFrom,
			m.RateTo,
			m.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for _, t := range transactions {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert exchange transaction %s: %w", t.TransactionID, translatePgError(err))
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close exchange transaction batch: %w", err)
	}
	return batchErr
}

// FindExchangeTransactionByID retrieves one ledger entry with display names.
func (r *PgxExchangeTransactionRepository) FindExchangeTransactionByID(ctx context.Context, transactionID string) (*domain.ExchangeTransactionView, error) {
	query := exchangeTransactionViewSelect + ` WHERE t.transaction_id = $1;`
	view, err := scanExchangeTransactionView(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange transaction %s: %w", transactionID, err)
	}
	return &view, nil
}

// ListExchangeTransactions lists ledger entries newest first using keyset pagination.
func (r *PgxExchangeTransactionRepository) ListExchangeTransactions(ctx context.Context, filter portsrepo.ExchangeTransactionFilter) ([]domain.ExchangeTransactionView, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}

	args := []any{filter.OperatorID}
	query := exchangeTransactionViewSelect + ` WHERE ($1 = '' OR t.operator_id::text = $1)`
	if filter.BeforeCreatedAt != nil {
		args = append(args, *filter.BeforeCreatedAt, filter.BeforeID)
		query += ` AND (t.created_at, t.transaction_id) < ($2, $3::uuid)`
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY t.created_at DESC, t.transaction_id DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange transactions: %w", err)
	}
	defer rows.Close()

	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExchangeTransactionView, error) {
		return scanExchangeTransactionView(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan exchange transactions: %w", err)
	}
	return views, nil
}

// DeleteExchangeTransaction deletes a ledger entry. Till balances are left as they are.
func (r *PgxExchangeTransactionRepository) DeleteExchangeTransaction(ctx context.Context, transactionID string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM exchange_transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete exchange transaction %s: %w", transactionID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
