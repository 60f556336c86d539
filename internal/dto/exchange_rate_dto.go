package dto

import (
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest adds a manual rate. When no currency with CurrencyCode exists
// one is created with CurrencyName and AmountInCash; otherwise AmountInCash tops up its till.
type CreateExchangeRateRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	CurrencyName string          `json:"currencyName" binding:"omitempty,max=100"`
	RateToBase   decimal.Decimal `json:"rateToBase" binding:"required,dgt=0"`
	RateDate     *time.Time      `json:"rateDate"` // Defaults to today
	AmountInCash decimal.Decimal `json:"amountInCash" binding:"dgte=0"`
}

// ImportExchangeRateRequest imports the official rate of a currency from the rate source.
type ImportExchangeRateRequest struct {
	CurrencyCode  string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	OnDate        *time.Time      `json:"onDate"`                                 // Defaults to today
	MarkupPercent decimal.Decimal `json:"markupPercent" binding:"dgte=0,dlte=100"` // Added on top of the official rate
	AmountInCash  decimal.Decimal `json:"amountInCash" binding:"dgte=0"`
}

// ListExchangeRatesParams defines query parameters for listing rates.
type ListExchangeRatesParams struct {
	CurrencyID string `form:"currencyID" binding:"omitempty,uuid"`
}

// EffectiveRateParams defines query parameters for looking up the rate in force.
type EffectiveRateParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID string            `json:"exchangeRateID"`
	CurrencyID     string            `json:"currencyID"`
	CurrencyCode   string            `json:"currencyCode,omitempty"`
	CurrencyName   string            `json:"currencyName,omitempty"`
	AmountInCash   *decimal.Decimal  `json:"amountInCash,omitempty"`
	RateToBase     decimal.Decimal   `json:"rateToBase"`
	RateDate       time.Time         `json:"rateDate"`
	Source         domain.RateSource `json:"source"`
	CreatedAt      time.Time         `json:"createdAt"`
	CreatedBy      string            `json:"createdBy"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID: rate.ExchangeRateID,
		CurrencyID:     rate.CurrencyID,
		RateToBase:     rate.RateToBase,
		RateDate:       rate.RateDate,
		Source:         rate.Source,
		CreatedAt:      rate.CreatedAt,
		CreatedBy:      rate.CreatedBy,
	}
}

// ToListExchangeRateResponse converts rate listings to ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRateListing) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		resp := ToExchangeRateResponse(&rates[i].ExchangeRate)
		resp.CurrencyCode = rates[i].CurrencyCode
		resp.CurrencyName = rates[i].CurrencyName
		cash := rates[i].AmountInCash
		resp.AmountInCash = &cash
		responses[i] = resp
	}
	return responses
}
