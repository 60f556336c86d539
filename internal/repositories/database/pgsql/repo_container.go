package pgsql

import (
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:               &BaseRepository{Pool: dbPool},
		CurrencyRepo:            newPgxCurrencyRepository(dbPool),
		ExchangeRateRepo:        newPgxExchangeRateRepository(dbPool),
		ExchangeTransactionRepo: newPgxExchangeTransactionRepository(dbPool),
		UserRepo:                newPgxUserRepository(dbPool),
	}
}
