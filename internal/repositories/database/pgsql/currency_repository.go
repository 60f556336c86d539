package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_exchange_app/internal/models"
	"github.com/SscSPs/currency_exchange_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const currencyColumns = `currency_id, code, name, is_base, amount_in_cash, is_archived, created_at, created_by, last_updated_at, last_updated_by`

type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new repository for currency data.
func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryWithTx {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CurrencyRepositoryWithTx = (*PgxCurrencyRepository)(nil)

func scanCurrency(row pgx.Row) (models.Currency, error) {
	var c models.Currency
	err := row.Scan(
		&c.CurrencyID,
		&c.Code,
		&c.Name,
		&c.IsBase,
		&c.AmountInCash,
		&c.IsArchived,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	return c, err
}

func insertCurrency(ctx context.Context, q querier, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)
	query := `
		INSERT INTO currencies (` + currencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := q.Exec(ctx, query,
		m.CurrencyID,
		m.Code,
		m.Name,
		m.IsBase,
		m.AmountInCash,
		m.IsArchived,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save currency %s: %w", m.Code, translatePgError(err))
	}
	return nil
}

func findOneCurrency(ctx context.Context, q querier, where string, arg any) (*domain.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE ` + where
	m, err := scanCurrency(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency: %w", err)
	}
	d := mapping.ToDomainCurrency(m)
	return &d, nil
}

// SaveCurrency inserts a new currency.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	return insertCurrency(ctx, r.Pool, currency)
}

// SaveCurrencyInTx inserts a new currency within tx.
func (r *PgxCurrencyRepository) SaveCurrencyInTx(ctx context.Context, tx pgx.Tx, currency domain.Currency) error {
	return insertCurrency(ctx, tx, currency)
}

// FindCurrencyByID retrieves a currency by its ID.
func (r *PgxCurrencyRepository) FindCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error) {
	return findOneCurrency(ctx, r.Pool, `currency_id = $1;`, currencyID)
}

// FindCurrencyByCode retrieves a currency by its 3-letter code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	return findOneCurrency(ctx, r.Pool, `code = $1;`, currencyCode)
}

// FindBaseCurrency retrieves the base currency.
func (r *PgxCurrencyRepository) FindBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	return findOneCurrency(ctx, r.Pool, `is_base = $1;`, true)
}

// FindCurrencyByCodeForUpdate locks the currency row with the given code.
func (r *PgxCurrencyRepository) FindCurrencyByCodeForUpdate(ctx context.Context, tx pgx.Tx, currencyCode string) (*domain.Currency, error) {
	return findOneCurrency(ctx, tx, `code = $1 FOR UPDATE;`, currencyCode)
}

// ListCurrencies retrieves currencies ordered by name.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context, includeArchived bool) ([]domain.Currency, error) {
	query := `
		SELECT ` + currencyColumns + `
		FROM currencies
		WHERE ($1 OR NOT is_archived)
		ORDER BY is_base DESC, name;
	`
	rows, err := r.Pool.Query(ctx, query, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	modelCurrencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		return scanCurrency(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}

	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}

// FindCurrenciesByIDsForUpdate retrieves multiple currencies by IDs and locks the rows for update.
// Rows are locked in ID order so concurrent exchanges over the same tills cannot deadlock.
// Must be called within a transaction.
func (r *PgxCurrencyRepository) FindCurrenciesByIDsForUpdate(ctx context.Context, tx pgx.Tx, currencyIDs []string) (map[string]domain.Currency, error) {
	if len(currencyIDs) == 0 {
		return map[string]domain.Currency{}, nil
	}
	ids := uniqueSorted(currencyIDs)

	query := `
		SELECT ` + currencyColumns + `
		FROM currencies
		WHERE currency_id = ANY($1)
		ORDER BY currency_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies by IDs for update: %w", err)
	}
	defer rows.Close()

	currencies := make(map[string]domain.Currency, len(ids))
	for rows.Next() {
		m, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked currency row: %w", err)
		}
		currencies[m.CurrencyID] = mapping.ToDomainCurrency(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked currency rows: %w", err)
	}

	for _, id := range ids {
		if _, ok := currencies[id]; !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("currency %s not found", id))
		}
	}
	return currencies, nil
}

// UpdateCurrencyBalancesInTx applies signed deltas to till balances within a transaction.
// A balance that would drop below zero violates the table's CHECK constraint and is
// reported as ErrInsufficientTill.
func (r *PgxCurrencyRepository) UpdateCurrencyBalancesInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE currencies
		SET amount_in_cash = amount_in_cash + $2, last_updated_at = $3, last_updated_by = $4
		WHERE currency_id = $1;
	`

	batch := &pgx.Batch{}
	currencyIDs := make([]string, 0, len(deltas))
	for id, delta := range deltas {
		if !delta.IsZero() {
			currencyIDs = append(currencyIDs, id)
		}
	}
	if len(currencyIDs) == 0 {
		return nil
	}
	sort.Strings(currencyIDs)
	for _, id := range currencyIDs {
		batch.Queue(query, id, deltas[id], now, userID)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for _, id := range currencyIDs {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update till for currency %s: %w", id, translatePgError(err))
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: currency %s not found during till update", apperrors.ErrNotFound, id)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close till update batch: %w", translatePgError(err))
	}
	return batchErr
}

// AddCash adds amount to a till and returns the updated currency.
func (r *PgxCurrencyRepository) AddCash(ctx context.Context, currencyID string, amount decimal.Decimal, userID string, now time.Time) (*domain.Currency, error) {
	query := `
		UPDATE currencies
		SET amount_in_cash = amount_in_cash + $2, last_updated_at = $3, last_updated_by = $4
		WHERE currency_id = $1
		RETURNING ` + currencyColumns + `;
	`
	m, err := scanCurrency(r.Pool.QueryRow(ctx, query, currencyID, amount, now, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to add cash to currency %s: %w", currencyID, translatePgError(err))
	}
	d := mapping.ToDomainCurrency(m)
	return &d, nil
}

// SetCurrencyArchived flips the archived flag of a currency.
func (r *PgxCurrencyRepository) SetCurrencyArchived(ctx context.Context, currencyID string, archived bool, userID string, now time.Time) error {
	query := `
		UPDATE currencies
		SET is_archived = $2, last_updated_at = $3, last_updated_by = $4
		WHERE currency_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, currencyID, archived, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update archived flag of currency %s: %w", currencyID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCurrency deletes a currency. Its rates go with it; referencing transactions block the delete.
func (r *PgxCurrencyRepository) DeleteCurrency(ctx context.Context, currencyID string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM currencies WHERE currency_id = $1;`, currencyID)
	if err != nil {
		return fmt.Errorf("failed to delete currency %s: %w", currencyID, translatePgError(err))
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
