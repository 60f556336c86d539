package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// RateSyncUserID is recorded as the author of rates imported by the scheduler.
const RateSyncUserID = "system:rate-sync"

// rateSyncTimeout bounds one scheduled run.
const rateSyncTimeout = 5 * time.Minute

type rateSyncService struct {
	BaseService
	currencyRepo  portsrepo.CurrencyReader
	rateService   portssvc.ExchangeRateWriterSvc
	schedule      string
	markupPercent decimal.Decimal
	logger        *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewRateSyncService creates the job that imports official rates for every active
// currency. An empty schedule leaves SyncRates available but never runs it on its own.
func NewRateSyncService(
	currencyRepo portsrepo.CurrencyReader,
	rateService portssvc.ExchangeRateWriterSvc,
	schedule string,
	markupPercent decimal.Decimal,
	logger *slog.Logger,
) portssvc.RateSyncSvc {
	if logger == nil {
		logger = slog.Default()
	}
	return &rateSyncService{
		currencyRepo:  currencyRepo,
		rateService:   rateService,
		schedule:      schedule,
		markupPercent: markupPercent,
		logger:        logger,
	}
}

var _ portssvc.RateSyncSvc = (*rateSyncService)(nil)

// SyncRates imports the current rate of each non-archived foreign currency. A failure
// for one currency is logged and does not stop the others.
func (s *rateSyncService) SyncRates(ctx context.Context) (int, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx, false)
	if err != nil {
		return 0, fmt.Errorf("failed to list currencies for rate sync: %w", err)
	}

	imported := 0
	for _, c := range currencies {
		// Base has no rate, archived currencies are not traded
		if !isSyncable(c) {
			continue
		}
		// Stop early once the job deadline has passed
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		rate, err := s.rateService.ImportExchangeRate(ctx, dto.ImportExchangeRateRequest{
			CurrencyCode:  c.Code,
			MarkupPercent: s.markupPercent,
		}, RateSyncUserID)
		if err != nil {
			s.logger.WarnContext(ctx, "Rate sync skipped currency",
				slog.String("currency_code", c.Code),
				slog.String("error", err.Error()))
			continue
		}
		imported++
		s.logger.DebugContext(ctx, "Rate synced",
			slog.String("currency_code", c.Code),
			slog.String("rate_to_base", rate.RateToBase.String()))
	}
	return imported, nil
}

func (s *rateSyncService) Start() error {
	if s.schedule == "" {
		s.logger.Info("Rate sync schedule not configured, scheduler disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}

	// A slow upstream must not stack runs on top of each other
	c := cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), rateSyncTimeout)
		defer cancel()
		imported, err := s.SyncRates(ctx)
		if err != nil {
			s.logger.Error("Scheduled rate sync failed", slog.String("error", err.Error()), slog.Int("imported", imported))
			return
		}
		s.logger.Info("Scheduled rate sync finished", slog.Int("imported", imported))
	})
	if err != nil {
		return fmt.Errorf("invalid rate sync schedule %q: %w", s.schedule, err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("Rate sync scheduler started", slog.String("schedule", s.schedule))
	return nil
}

func (s *rateSyncService) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}

	// Wait for a running job, but not past the shutdown deadline
	select {
	case <-c.Stop().Done():
		s.logger.Info("Rate sync scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Rate sync scheduler did not stop before shutdown deadline")
	}
}

// isSyncable reports whether c has an official rate worth importing.
func isSyncable(c domain.Currency) bool {
	return !c.IsBase && !c.IsArchived
}
