package models

import "github.com/shopspring/decimal"

// Currency is a row of the currencies table; amount_in_cash is the till balance.
type Currency struct {
	CurrencyID   string          `db:"currency_id"`
	Code         string          `db:"code"`
	Name         string          `db:"name"`
	IsBase       bool            `db:"is_base"`
	AmountInCash decimal.Decimal `db:"amount_in_cash"`
	IsArchived   bool            `db:"is_archived"`
	AuditFields
}
