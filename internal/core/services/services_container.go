package services

import (
	"log/slog"

	portsrepo "github.com/SscSPs/currency_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// rateSource may be nil when no official rate source is configured.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, rateSource portssvc.RateSource, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.TxManager, repos.ExchangeRateRepo, repos.CurrencyRepo, rateSource)
	container.Exchange = NewExchangeService(repos.TxManager, repos.CurrencyRepo, repos.ExchangeRateRepo, repos.ExchangeTransactionRepo)
	container.History = NewHistoryService(repos.ExchangeTransactionRepo)
	container.User = NewUserService(repos.UserRepo)

	// The scheduler imports through the rate service so imports share one code path
	container.RateSync = NewRateSyncService(repos.CurrencyRepo, container.ExchangeRate, cfg.RateSyncSchedule, cfg.RateSyncMarkupPercent, logger)

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)

	return container
}
