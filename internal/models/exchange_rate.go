package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a row of the exchange_rates table.
type ExchangeRate struct {
	ExchangeRateID string          `db:"exchange_rate_id"`
	CurrencyID     string          `db:"currency_id"`
	RateToBase     decimal.Decimal `db:"rate_to_base"`
	RateDate       time.Time       `db:"rate_date"`
	Source         string          `db:"source"`
	AuditFields
}
