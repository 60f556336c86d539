package domain

import "github.com/shopspring/decimal"

// Currency is a till (cash reserve) for one currency. Exactly one currency is the base.
type Currency struct {
	CurrencyID   string          `json:"currencyID"`   // Primary Key (UUID)
	Code         string          `json:"code"`         // ISO-like 3 letter code, used for rate-source lookups
	Name         string          `json:"name"`         // Display name, unique
	IsBase       bool            `json:"isBase"`       // All rates are quoted against the base currency
	AmountInCash decimal.Decimal `json:"amountInCash"` // Current till balance, never negative
	IsArchived   bool            `json:"isArchived"`   // Excluded from new exchanges, kept for history
	AuditFields
}

// CanExchange reports whether the currency may take part in a new exchange.
func (c Currency) CanExchange() bool {
	return !c.IsArchived
}
