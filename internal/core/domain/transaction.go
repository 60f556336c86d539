package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of decimal places amounts are stored with.
const MoneyPrecision = 2

// ExchangeTransaction is one immutable ledger entry. A cross-currency exchange is
// recorded as two entries sharing a GroupID (leg 1: foreign -> base, leg 2: base -> foreign).
type ExchangeTransaction struct {
	TransactionID   string          `json:"transactionID"`   // Primary Key (UUID)
	GroupID         string          `json:"groupID"`         // Shared by all legs of one exchange
	LegNumber       int             `json:"legNumber"`       // 1 or 2
	OperatorID      string          `json:"operatorID"`      // FK -> users.user_id
	CurrencyFromID  string          `json:"currencyFromID"`  // FK -> currencies.currency_id
	CurrencyToID    string          `json:"currencyToID"`    // FK -> currencies.currency_id
	Amount          decimal.Decimal `json:"amount"`          // Sold (paid in by the customer)
	ExchangedAmount decimal.Decimal `json:"exchangedAmount"` // Bought (paid out by the desk)
	ChangeInBase    decimal.Decimal `json:"changeInBase"`    // Base-currency remainder paid out
	RateFrom        decimal.Decimal `json:"rateFrom"`
	RateTo          decimal.Decimal `json:"rateTo"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ExchangeTransactionView is a ledger entry joined with display names.
type ExchangeTransactionView struct {
	ExchangeTransaction
	CurrencyFromName string `json:"currencyFromName"`
	CurrencyToName   string `json:"currencyToName"`
	OperatorUsername string `json:"operatorUsername"`
}

// Validate checks the invariants of a ledger entry before it is written.
func (t ExchangeTransaction) Validate() error {
	if t.TransactionID == "" || t.GroupID == "" {
		return errors.New("transaction and group IDs are required")
	}
	if t.OperatorID == "" {
		return errors.New("operator ID is required")
	}
	if t.CurrencyFromID == "" || t.CurrencyToID == "" {
		return errors.New("both currencies are required")
	}
	if t.CurrencyFromID == t.CurrencyToID {
		return errors.New("currency from and currency to must differ")
	}
	if !t.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if t.ExchangedAmount.IsNegative() {
		return errors.New("exchanged amount must not be negative")
	}
	if t.ChangeInBase.IsNegative() {
		return errors.New("change in base must not be negative")
	}
	if t.LegNumber != 1 && t.LegNumber != 2 {
		return errors.New("leg number must be 1 or 2")
	}
	return nil
}
