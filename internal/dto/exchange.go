package dto

import (
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRequest describes a cash exchange at the desk. AmountToGet switches the
// calculation to fixed mode.
type ExchangeRequest struct {
	CurrencyFromID string           `json:"currencyFromID" binding:"required,uuid"`
	CurrencyToID   string           `json:"currencyToID" binding:"required,uuid,nefield=CurrencyFromID"`
	AmountSold     decimal.Decimal  `json:"amountSold" binding:"required,dgt=0,dprec=2"`
	AmountToGet    *decimal.Decimal `json:"amountToGet" binding:"omitempty,dgt=0,dprec=2"`
}

// ExchangeQuoteResponse is the priced but unrecorded outcome of an exchange.
type ExchangeQuoteResponse struct {
	CurrencyFromID  string          `json:"currencyFromID"`
	CurrencyToID    string          `json:"currencyToID"`
	AmountSold      decimal.Decimal `json:"amountSold"`
	ExchangedAmount decimal.Decimal `json:"exchangedAmount"`
	ChangeInBase    decimal.Decimal `json:"changeInBase"`
	Legs            []QuoteLeg      `json:"legs"`
}

// QuoteLeg is one conversion of a quote; cross-currency quotes have two.
type QuoteLeg struct {
	RateFrom        decimal.Decimal `json:"rateFrom"`
	RateTo          decimal.Decimal `json:"rateTo"`
	AmountInBase    decimal.Decimal `json:"amountInBase"`
	ExchangedAmount decimal.Decimal `json:"exchangedAmount"`
	ChangeInBase    decimal.Decimal `json:"changeInBase"`
}

// ExchangeResponse is returned after an exchange is recorded.
type ExchangeResponse struct {
	GroupID         string                        `json:"groupID"`
	CurrencyFrom    CurrencyResponse              `json:"currencyFrom"`
	CurrencyTo      CurrencyResponse              `json:"currencyTo"`
	AmountSold      decimal.Decimal               `json:"amountSold"`
	ExchangedAmount decimal.Decimal               `json:"exchangedAmount"`
	ChangeInBase    decimal.Decimal               `json:"changeInBase"`
	Transactions    []ExchangeTransactionResponse `json:"transactions"`
}

// ExchangeTransactionResponse is one ledger entry.
type ExchangeTransactionResponse struct {
	TransactionID    string          `json:"transactionID"`
	GroupID          string          `json:"groupID"`
	LegNumber        int             `json:"legNumber"`
	OperatorID       string          `json:"operatorID"`
	OperatorUsername string          `json:"operatorUsername,omitempty"`
	CurrencyFromID   string          `json:"currencyFromID"`
	CurrencyFromName string          `json:"currencyFromName,omitempty"`
	CurrencyToID     string          `json:"currencyToID"`
	CurrencyToName   string          `json:"currencyToName,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	ExchangedAmount  decimal.Decimal `json:"exchangedAmount"`
	ChangeInBase     decimal.Decimal `json:"changeInBase"`
	RateFrom         decimal.Decimal `json:"rateFrom"`
	RateTo           decimal.Decimal `json:"rateTo"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ListTransactionsParams defines query parameters for the history listing.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken string `form:"nextToken"`
}

// ListTransactionsResponse is one page of history.
type ListTransactionsResponse struct {
	Transactions []ExchangeTransactionResponse `json:"transactions"`
	NextToken    *string                       `json:"nextToken,omitempty"`
}

// ToExchangeTransactionResponse converts a ledger entry to its DTO.
func ToExchangeTransactionResponse(t *domain.ExchangeTransaction) ExchangeTransactionResponse {
	return ExchangeTransactionResponse{
		TransactionID:   t.TransactionID,
		GroupID:         t.GroupID,
		LegNumber:       t.LegNumber,
		OperatorID:      t.OperatorID,
		CurrencyFromID:  t.CurrencyFromID,
		CurrencyToID:    t.CurrencyToID,
		Amount:          t.Amount,
		ExchangedAmount: t.ExchangedAmount,
		ChangeInBase:    t.ChangeInBase,
		RateFrom:        t.RateFrom,
		RateTo:          t.RateTo,
		CreatedAt:       t.CreatedAt,
	}
}

// ToExchangeTransactionViewResponse converts a ledger entry with display names to its DTO.
func ToExchangeTransactionViewResponse(v *domain.ExchangeTransactionView) ExchangeTransactionResponse {
	resp := ToExchangeTransactionResponse(&v.ExchangeTransaction)
	resp.OperatorUsername = v.OperatorUsername
	resp.CurrencyFromName = v.CurrencyFromName
	resp.CurrencyToName = v.CurrencyToName
	return resp
}

// ToExchangeResponse converts the result of a recorded exchange to its DTO.
func ToExchangeResponse(res *domain.ExchangeResult) ExchangeResponse {
	txns := make([]ExchangeTransactionResponse, len(res.Legs))
	for i := range res.Legs {
		txns[i] = ToExchangeTransactionResponse(&res.Legs[i])
	}
	return ExchangeResponse{
		GroupID:         res.GroupID,
		CurrencyFrom:    ToCurrencyResponse(&res.CurrencyFrom),
		CurrencyTo:      ToCurrencyResponse(&res.CurrencyTo),
		AmountSold:      res.AmountSold,
		ExchangedAmount: res.ExchangedAmount,
		ChangeInBase:    res.ChangeInBase,
		Transactions:    txns,
	}
}

// ToExchangeQuoteResponse converts calculated legs into a quote DTO.
func ToExchangeQuoteResponse(req ExchangeRequest, legs []domain.ExchangeQuote) ExchangeQuoteResponse {
	resp := ExchangeQuoteResponse{
		CurrencyFromID: req.CurrencyFromID,
		CurrencyToID:   req.CurrencyToID,
		AmountSold:     req.AmountSold,
		Legs:           make([]QuoteLeg, len(legs)),
	}
	change := decimal.Zero
	for i, l := range legs {
		resp.Legs[i] = QuoteLeg{
			RateFrom:        l.RateFrom,
			RateTo:          l.RateTo,
			AmountInBase:    l.AmountInBase,
			ExchangedAmount: l.ExchangedAmount,
			ChangeInBase:    l.ChangeInBase,
		}
		change = change.Add(l.ChangeInBase)
	}
	if len(legs) > 0 {
		resp.ExchangedAmount = legs[len(legs)-1].ExchangedAmount
	}
	resp.ChangeInBase = change
	return resp
}
