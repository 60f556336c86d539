package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type exchangeRateService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	currencyRepo portsrepo.CurrencyRepositoryFacade
	rateSource   portssvc.RateSource
	now          func() time.Time
}

// NewExchangeRateService creates the service that manages stored rates.
// rateSource may be nil, in which case imports are rejected.
func NewExchangeRateService(
	txManager portsrepo.TransactionManager,
	rateRepo portsrepo.ExchangeRateRepositoryFacade,
	currencyRepo portsrepo.CurrencyRepositoryFacade,
	rateSource portssvc.RateSource,
) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		txManager:    txManager,
		rateRepo:     rateRepo,
		currencyRepo: currencyRepo,
		rateSource:   rateSource,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// rateEntry is a rate about to be stored together with the till it belongs to.
type rateEntry struct {
	currencyCode string
	currencyName string
	rate         decimal.Decimal
	rateDate     time.Time
	source       domain.RateSource
	amountInCash decimal.Decimal
}

func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	if !req.RateToBase.IsPositive() {
		return nil, apperrors.NewValidationError("rate to base must be greater than zero")
	}
	// Rates without a date take effect today
	rateDate := s.now()
	if req.RateDate != nil {
		rateDate = *req.RateDate
	}
	return s.storeRate(ctx, rateEntry{
		currencyCode: req.CurrencyCode,
		currencyName: req.CurrencyName,
		rate:         req.RateToBase,
		rateDate:     rateDate,
		source:       domain.RateSourceManual,
		amountInCash: req.AmountInCash,
	}, creatorUserID)
}

func (s *exchangeRateService) ImportExchangeRate(ctx context.Context, req dto.ImportExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	if s.rateSource == nil {
		return nil, apperrors.NewValidationError("no rate source is configured")
	}
	onDate := s.now()
	if req.OnDate != nil {
		onDate = *req.OnDate
	}

	// Fetch the official quote, then turn it into a per-unit rate with markup
	official, err := s.rateSource.GetOfficialRate(ctx, strings.ToUpper(req.CurrencyCode), onDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch official rate in service: %w", err)
	}
	rate := domain.NormalizeOfficialRate(*official, req.MarkupPercent)
	if !rate.IsPositive() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("official rate of %s rounds to zero", req.CurrencyCode))
	}
	// Prefer the date the source says the rate is for
	rateDate := onDate
	if !official.Date.IsZero() {
		rateDate = official.Date
	}

	return s.storeRate(ctx, rateEntry{
		currencyCode: req.CurrencyCode,
		currencyName: official.CurrencyName,
		rate:         rate,
		rateDate:     rateDate,
		source:       domain.RateSourceNBRB,
		amountInCash: req.AmountInCash,
	}, creatorUserID)
}

// storeRate inserts the rate, creating the currency when its code is unknown or
// topping up its till otherwise, in one transaction.
func (s *exchangeRateService) storeRate(ctx context.Context, e rateEntry, userID string) (*domain.ExchangeRate, error) {
	if e.amountInCash.IsNegative() {
		return nil, apperrors.NewValidationError("amount in cash must not be negative")
	}
	code := strings.ToUpper(e.currencyCode)
	cash := e.amountInCash.RoundFloor(domain.MoneyPrecision)
	now := s.now()

	rate := domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		RateToBase:     domain.QuantizeRate(e.rate),
		RateDate:       domain.DateOnly(e.rateDate),
		Source:         e.source,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	err := runInTx(ctx, s.txManager, func(tx pgx.Tx) error {
		// Lock the till row so a concurrent exchange sees the top-up or waits for it
		currency, err := s.currencyRepo.FindCurrencyByCodeForUpdate(ctx, tx, code)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			// Unknown code: create the currency with the given cash
			name := strings.TrimSpace(e.currencyName)
			if name == "" {
				return apperrors.NewValidationError(fmt.Sprintf("currency %s does not exist; a name is required to create it", code))
			}
			currency = &domain.Currency{
				CurrencyID:   uuid.NewString(),
				Code:         code,
				Name:         name,
				AmountInCash: cash,
				AuditFields:  rate.AuditFields,
			}
			if err := s.currencyRepo.SaveCurrencyInTx(ctx, tx, *currency); err != nil {
				return fmt.Errorf("failed to create currency in service: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to lock currency in service: %w", err)
		case currency.IsBase:
			return apperrors.NewValidationError("the base currency always has a rate of 1")
		case cash.IsPositive():
			// Existing currency: the cash tops up its till
			deltas := map[string]decimal.Decimal{currency.CurrencyID: cash}
			if err := s.currencyRepo.UpdateCurrencyBalancesInTx(ctx, tx, deltas, userID, now); err != nil {
				return fmt.Errorf("failed to top up till in service: %w", err)
			}
		}

		rate.CurrencyID = currency.CurrencyID
		if err := s.rateRepo.SaveExchangeRateInTx(ctx, tx, rate); err != nil {
			return fmt.Errorf("failed to save exchange rate in service: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Exchange rate stored",
		slog.String("currency_code", code),
		slog.String("rate_to_base", rate.RateToBase.String()),
		slog.String("source", string(rate.Source)),
		slog.Time("rate_date", rate.RateDate))
	return &rate, nil
}

func (s *exchangeRateService) GetEffectiveRate(ctx context.Context, currencyID string, asOf time.Time) (*domain.ExchangeRate, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	// Latest rate dated on or before asOf
	rate, err := s.rateRepo.FindEffectiveRate(ctx, currencyID, domain.DateOnly(asOf))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("currency %s on %s: %w", currencyID, asOf.Format("2006-01-02"), apperrors.ErrRateNotFound)
		}
		return nil, fmt.Errorf("failed to get effective rate in service: %w", err)
	}
	return rate, nil
}

func (s *exchangeRateService) ListExchangeRates(ctx context.Context, currencyID string) ([]domain.ExchangeRateListing, error) {
	rates, err := s.rateRepo.ListExchangeRates(ctx, currencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates in service: %w", err)
	}
	if rates == nil {
		return []domain.ExchangeRateListing{}, nil
	}
	return rates, nil
}

func (s *exchangeRateService) DeleteExchangeRate(ctx context.Context, exchangeRateID string) error {
	if err := s.rateRepo.DeleteExchangeRate(ctx, exchangeRateID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("exchange rate " + exchangeRateID + " not found")
		}
		return fmt.Errorf("failed to delete exchange rate in service: %w", err)
	}
	s.LogInfo(ctx, "Exchange rate deleted", slog.String("exchange_rate_id", exchangeRateID))
	return nil
}
