package mapping

import (
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/models"
)

// ToModelExchangeTransaction converts a domain ledger entry to its row model
func ToModelExchangeTransaction(d domain.ExchangeTransaction) models.ExchangeTransaction {
	return models.ExchangeTransaction{
		TransactionID:   d.TransactionID,
		GroupID:         d.GroupID,
		LegNumber:       d.LegNumber,
		OperatorID:      d.OperatorID,
		CurrencyFromID:  d.CurrencyFromID,
		CurrencyToID:    d.CurrencyToID,
		Amount:          d.Amount,
		ExchangedAmount: d.ExchangedAmount,
		ChangeInBase:    d.ChangeInBase,
		RateFrom:        d.RateFrom,
		RateTo:          d.RateTo,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainExchangeTransaction converts a row model to a domain ledger entry
func ToDomainExchangeTransaction(m models.ExchangeTransaction) domain.ExchangeTransaction {
	return domain.ExchangeTransaction{
		TransactionID:   m.TransactionID,
		GroupID:         m.GroupID,
		LegNumber:       m.LegNumber,
		OperatorID:      m.OperatorID,
		CurrencyFromID:  m.CurrencyFromID,
		CurrencyToID:    m.CurrencyToID,
		Amount:          m.Amount,
		ExchangedAmount: m.ExchangedAmount,
		ChangeInBase:    m.ChangeInBase,
		RateFrom:        m.RateFrom,
		RateTo:          m.RateTo,
		CreatedAt:       m.CreatedAt,
	}
}
