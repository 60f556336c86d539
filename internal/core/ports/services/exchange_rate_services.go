package services

import (
	"context"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
)

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetEffectiveRate retrieves the rate of a currency in force on asOf.
	GetEffectiveRate(ctx context.Context, currencyID string, asOf time.Time) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves stored rates with their currency; empty currencyID lists all.
	ListExchangeRates(ctx context.Context, currencyID string) ([]domain.ExchangeRateListing, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate stores a manual rate, creating the currency or topping up its till.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)

	// ImportExchangeRate fetches the official rate from the rate source and stores it.
	ImportExchangeRate(ctx context.Context, req dto.ImportExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)

	// DeleteExchangeRate removes a stored rate.
	DeleteExchangeRate(ctx context.Context, exchangeRateID string) error
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}

// RateSource looks up official rates of foreign currencies against the base currency.
type RateSource interface {
	// GetOfficialRate returns the official quote for currencyCode on onDate.
	GetOfficialRate(ctx context.Context, currencyCode string, onDate time.Time) (*domain.OfficialRate, error)
}

// RateSyncSvc imports official rates for every active currency.
type RateSyncSvc interface {
	// SyncRates imports today's rate for every non-archived, non-base currency.
	SyncRates(ctx context.Context) (imported int, err error)

	// Start schedules SyncRates when a schedule is configured.
	Start() error

	// Stop cancels the schedule and waits for a running sync to finish.
	Stop(ctx context.Context)
}
