package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeTransaction is a row of the exchange_transactions table.
type ExchangeTransaction struct {
	TransactionID   string          `db:"transaction_id"`
	GroupID         string          `db:"group_id"`
	LegNumber       int             `db:"leg_number"`
	OperatorID      string          `db:"operator_id"`
	CurrencyFromID  string          `db:"currency_from_id"`
	CurrencyToID    string          `db:"currency_to_id"`
	Amount          decimal.Decimal `db:"amount"`
	ExchangedAmount decimal.Decimal `db:"exchanged_amount"`
	ChangeInBase    decimal.Decimal `db:"change_in_base"`
	RateFrom        decimal.Decimal `db:"rate_from"`
	RateTo          decimal.Decimal `db:"rate_to"`
	CreatedAt       time.Time       `db:"created_at"`
}
