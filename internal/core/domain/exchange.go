package domain

import "github.com/shopspring/decimal"

// ExchangeQuote is the outcome of the exchange calculation for one conversion.
type ExchangeQuote struct {
	RateFrom        decimal.Decimal `json:"rateFrom"`
	RateTo          decimal.Decimal `json:"rateTo"`
	AmountInBase    decimal.Decimal `json:"amountInBase"`
	ExchangedAmount decimal.Decimal `json:"exchangedAmount"`
	ChangeInBase    decimal.Decimal `json:"changeInBase"`
}

// ExchangeResult is what an operator gets back after an exchange is recorded.
type ExchangeResult struct {
	GroupID         string                `json:"groupID"`
	CurrencyFrom    Currency              `json:"currencyFrom"`
	CurrencyTo      Currency              `json:"currencyTo"`
	AmountSold      decimal.Decimal       `json:"amountSold"`
	ExchangedAmount decimal.Decimal       `json:"exchangedAmount"`
	ChangeInBase    decimal.Decimal       `json:"changeInBase"`
	Legs            []ExchangeTransaction `json:"legs"`
}
