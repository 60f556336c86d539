package mapping

import (
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID: d.ExchangeRateID,
		CurrencyID:     d.CurrencyID,
		RateToBase:     d.RateToBase,
		RateDate:       d.RateDate,
		Source:         string(d.Source),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID: m.ExchangeRateID,
		CurrencyID:     m.CurrencyID,
		RateToBase:     m.RateToBase,
		RateDate:       m.RateDate,
		Source:         domain.RateSource(m.Source),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
