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
	"github.com/shopspring/decimal"
)

type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates the service that manages currencies and their tills.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	// Code and name format are already checked by DTO binding
	if req.AmountInCash.IsNegative() {
		return nil, apperrors.NewValidationError("amount in cash must not be negative")
	}

	// Only one base currency may exist; the partial unique index backs this up
	if req.IsBase {
		if _, err := s.currencyRepo.FindBaseCurrency(ctx); err == nil {
			return nil, apperrors.NewAppError(409, "a base currency already exists", apperrors.ErrDuplicate)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check base currency in service: %w", err)
		}
	}

	now := time.Now().UTC()
	currency := domain.Currency{
		CurrencyID:   uuid.NewString(),
		Code:         strings.ToUpper(req.Code),
		Name:         strings.TrimSpace(req.Name),
		IsBase:       req.IsBase,
		AmountInCash: req.AmountInCash.RoundFloor(domain.MoneyPrecision),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		// Duplicate code or name surfaces as ErrDuplicate from the repository
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}
	s.LogInfo(ctx, "Currency created", slog.String("currency_id", currency.CurrencyID), slog.String("code", currency.Code))
	return &currency, nil
}

func (s *currencyService) GetCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByID(ctx, currencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by ID in service: %w", err)
	}
	return currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context, includeArchived bool) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	// Return empty slice if no currencies found, not nil
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

func (s *currencyService) TopUpCurrency(ctx context.Context, currencyID string, amount decimal.Decimal, userID string) (*domain.Currency, error) {
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("top-up amount must be greater than zero")
	}
	// Cash is counted in whole cents
	currency, err := s.currencyRepo.AddCash(ctx, currencyID, amount.RoundFloor(domain.MoneyPrecision), userID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to top up currency in service: %w", err)
	}
	s.LogInfo(ctx, "Till topped up",
		slog.String("currency_id", currencyID),
		slog.String("amount", amount.String()),
		slog.String("amount_in_cash", currency.AmountInCash.String()))
	return currency, nil
}

func (s *currencyService) ArchiveCurrency(ctx context.Context, currencyID string, userID string) error {
	currency, err := s.currencyRepo.FindCurrencyByID(ctx, currencyID)
	if err != nil {
		return fmt.Errorf("failed to find currency to archive in service: %w", err)
	}
	if currency.IsBase {
		return apperrors.NewValidationError("the base currency cannot be archived")
	}
	if err := s.currencyRepo.SetCurrencyArchived(ctx, currencyID, true, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to archive currency in service: %w", err)
	}
	return nil
}

func (s *currencyService) UnarchiveCurrency(ctx context.Context, currencyID string, userID string) error {
	if err := s.currencyRepo.SetCurrencyArchived(ctx, currencyID, false, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to unarchive currency in service: %w", err)
	}
	return nil
}

func (s *currencyService) DeleteCurrency(ctx context.Context, currencyID string) error {
	if err := s.currencyRepo.DeleteCurrency(ctx, currencyID); err != nil {
		// Transactions reference the currency with ON DELETE RESTRICT
		if errors.Is(err, apperrors.ErrReferentialIntegrity) {
			return apperrors.NewAppError(409, "currency has transaction history and cannot be deleted; archive it instead", err)
		}
		return fmt.Errorf("failed to delete currency in service: %w", err)
	}
	s.LogInfo(ctx, "Currency deleted", slog.String("currency_id", currencyID))
	return nil
}
