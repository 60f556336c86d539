package utils

import (
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatAmount renders a till or ledger amount with the money precision, e.g. 12.5 -> "12.50".
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(domain.MoneyPrecision)
}

// FormatRate renders a rate with the rate precision, e.g. 3.2 -> "3.200".
func FormatRate(rate decimal.Decimal) string {
	return rate.StringFixed(domain.RatePrecision)
}
