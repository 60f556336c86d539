package dto

import (
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCurrencyRequest defines the data needed to open a till for a new currency.
type CreateCurrencyRequest struct {
	Code         string          `json:"code" binding:"required,uppercase,len=3"`
	Name         string          `json:"name" binding:"required,max=100"`
	IsBase       bool            `json:"isBase"`
	AmountInCash decimal.Decimal `json:"amountInCash" binding:"dgte=0"`
}

// TopUpCurrencyRequest defines the data needed to add cash to a till.
type TopUpCurrencyRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,dgt=0"`
}

// ListCurrenciesParams defines query parameters for listing currencies.
type ListCurrenciesParams struct {
	IncludeArchived bool `form:"includeArchived"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyID    string          `json:"currencyID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	IsBase        bool            `json:"isBase"`
	AmountInCash  decimal.Decimal `json:"amountInCash"`
	IsArchived    bool            `json:"isArchived"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyID:    curr.CurrencyID,
		Code:          curr.Code,
		Name:          curr.Name,
		IsBase:        curr.IsBase,
		AmountInCash:  curr.AmountInCash,
		IsArchived:    curr.IsArchived,
		CreatedAt:     curr.CreatedAt,
		CreatedBy:     curr.CreatedBy,
		LastUpdatedAt: curr.LastUpdatedAt,
		LastUpdatedBy: curr.LastUpdatedBy,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}
