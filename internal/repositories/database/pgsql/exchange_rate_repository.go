package pgsql

import (
	"context"
	"errors"
	"fmt"
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

const exchangeRateColumns = `r.exchange_rate_id, r.currency_id, r.rate_to_base, r.rate_date, r.source, r.created_at, r.created_by, r.last_updated_at, r.last_updated_by`

type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryWithTx {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRateRepositoryWithTx = (*PgxExchangeRateRepository)(nil)

func exchangeRateScanTargets(m *models.ExchangeRate) []any {
	return []any{
		&m.ExchangeRateID,
		&m.CurrencyID,
		&m.RateToBase,
		&m.RateDate,
		&m.Source,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	}
}

func insertExchangeRate(ctx context.Context, q querier, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	query := `
		INSERT INTO exchange_rates (exchange_rate_id, currency_id, rate_to_base, rate_date, source, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := q.Exec(ctx, query,
		m.ExchangeRateID,
		m.CurrencyID,
		m.RateToBase,
		m.RateDate,
		m.Source,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate for currency %s: %w", m.CurrencyID, translatePgError(err))
	}
	return nil
}

func findEffectiveRate(ctx context.Context, q querier, currencyID string, asOf time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates r
		WHERE r.currency_id = $1 AND r.rate_date <= $2
		ORDER BY r.rate_date DESC, r.created_at DESC
		LIMIT 1;
	`
	var m models.ExchangeRate
	err := q.QueryRow(ctx, query, currencyID, domain.DateOnly(asOf)).Scan(exchangeRateScanTargets(&m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find effective rate for currency %s: %w", currencyID, err)
	}
	d := mapping.ToDomainExchangeRate(m)
	return &d, nil
}

// SaveExchangeRate inserts a new exchange rate.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	return insertExchangeRate(ctx, r.Pool, rate)
}

// SaveExchangeRateInTx inserts a new exchange rate within tx.
func (r *PgxExchangeRateRepository) SaveExchangeRateInTx(ctx context.Context, tx pgx.Tx, rate domain.ExchangeRate) error {
	return insertExchangeRate(ctx, tx, rate)
}

// FindEffectiveRate returns the latest rate dated on or before asOf.
func (r *PgxExchangeRateRepository) FindEffectiveRate(ctx context.Context, currencyID string, asOf time.Time) (*domain.ExchangeRate, error) {
	return findEffectiveRate(ctx, r.Pool, currencyID, asOf)
}

// FindEffectiveRateInTx returns the latest rate dated on or before asOf within tx.
func (r *PgxExchangeRateRepository) FindEffectiveRateInTx(ctx context.Context, tx pgx.Tx, currencyID string, asOf time.Time) (*domain.ExchangeRate, error) {
	return findEffectiveRate(ctx, tx, currencyID, asOf)
}

// FindExchangeRateByID retrieves a stored rate by its ID.
func (r *PgxExchangeRateRepository) FindExchangeRateByID(ctx context.Context, exchangeRateID string) (*domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + ` FROM exchange_rates r WHERE r.exchange_rate_id = $1;`
	var m models.ExchangeRate
	if err := r.Pool.QueryRow(ctx, query, exchangeRateID).Scan(exchangeRateScanTargets(&m)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exchange rate %s: %w", exchangeRateID, err)
	}
	d := mapping.ToDomainExchangeRate(m)
	return &d, nil
}

// ListExchangeRates lists stored rates newest first, with currency code, name and till.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, currencyID string) ([]domain.ExchangeRateListing, error) {
	query := `
		SELECT ` + exchangeRateColumns + `, c.code, c.name, c.amount_in_cash
		FROM exchange_rates r
		JOIN currencies c ON c.currency_id = r.currency_id
		WHERE ($1 = '' OR r.currency_id::text = $1)
		ORDER BY r.rate_date DESC, r.created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, currencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	listings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExchangeRateListing, error) {
		var m models.ExchangeRate
		var code, name string
		var cash decimal.Decimal
		targets := append(exchangeRateScanTargets(&m), &code, &name, &cash)
		if err := row.Scan(targets...); err != nil {
			return domain.ExchangeRateListing{}, err
		}
		return domain.ExchangeRateListing{
			ExchangeRate: mapping.ToDomainExchangeRate(m),
			CurrencyCode: code,
			CurrencyName: name,
			AmountInCash: cash,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan exchange rates: %w", err)
	}
	return listings, nil
}

// DeleteExchangeRate deletes a stored rate.
func (r *PgxExchangeRateRepository) DeleteExchangeRate(ctx context.Context, exchangeRateID string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM exchange_rates WHERE exchange_rate_id = $1;`, exchangeRateID)
	if err != nil {
		return fmt.Errorf("failed to delete exchange rate %s: %w", exchangeRateID, translatePgError(err))
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
