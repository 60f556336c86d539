package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSource identifies where a stored exchange rate came from.
type RateSource string

const (
	RateSourceManual RateSource = "MANUAL"
	RateSourceNBRB   RateSource = "NBRB"
)

// RatePrecision is the number of decimal places rates are quantized to.
const RatePrecision = 3

// ExchangeRate is the price of one unit of a foreign currency in base-currency units,
// effective from RateDate until superseded by a newer row.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"` // Primary Key (UUID)
	CurrencyID     string          `json:"currencyID"`     // FK -> currencies.currency_id
	RateToBase     decimal.Decimal `json:"rateToBase"`     // > 0, quantized to RatePrecision
	RateDate       time.Time       `json:"rateDate"`       // Date the rate becomes effective
	Source         RateSource      `json:"source"`
	AuditFields
}

// ExchangeRateListing is a rate joined with its currency's name and till balance.
type ExchangeRateListing struct {
	ExchangeRate
	CurrencyCode string          `json:"currencyCode"`
	CurrencyName string          `json:"currencyName"`
	AmountInCash decimal.Decimal `json:"amountInCash"`
}

// OfficialRate is a quote returned by an external rate source before normalization.
type OfficialRate struct {
	CurrencyCode string
	CurrencyName string
	OfficialRate decimal.Decimal // Price of Scale units in base currency
	Scale        int64
	Date         time.Time
}

// QuantizeRate rounds a rate to RatePrecision decimal places.
func QuantizeRate(rate decimal.Decimal) decimal.Decimal {
	return rate.Round(RatePrecision)
}

// NormalizeOfficialRate converts an official quote into a per-unit rate and applies an
// additive percentage markup: quantize(quantize(official/scale) * (1 + markup/100)).
func NormalizeOfficialRate(official OfficialRate, markupPercent decimal.Decimal) decimal.Decimal {
	scale := official.Scale
	if scale <= 0 {
		scale = 1
	}
	rate := QuantizeRate(official.OfficialRate.Div(decimal.NewFromInt(scale)))
	if markupPercent.IsZero() {
		return rate
	}
	factor := decimal.NewFromInt(1).Add(markupPercent.Div(decimal.NewFromInt(100)))
	return QuantizeRate(rate.Mul(factor))
}

// DateOnly truncates t to midnight UTC, the granularity of RateDate.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
