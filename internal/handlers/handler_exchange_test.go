package handlers_test

import (
	"net/http"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestPerformExchange_AdminForbidden() {
	w := suite.asAdmin(http.MethodPost, "/api/v1/exchange",
		`{"currencyFromID":"`+usdID+`","currencyToID":"`+bynID+`","amountSold":"100"}`)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.exchangeService.AssertNotCalled(suite.T(), "PerformExchange", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestPerformExchange_Success() {
	result := &domain.ExchangeResult{
		GroupID:         "g-1",
		CurrencyFrom:    domain.Currency{CurrencyID: usdID, Code: "USD", Name: "US Dollar", AmountInCash: decimal.NewFromInt(600)},
		CurrencyTo:      domain.Currency{CurrencyID: bynID, Code: "BYN", Name: "Belarusian Ruble", IsBase: true, AmountInCash: decimal.NewFromInt(680)},
		AmountSold:      decimal.NewFromInt(100),
		ExchangedAmount: decimal.NewFromInt(320),
		ChangeInBase:    decimal.Zero,
		Legs: []domain.ExchangeTransaction{{
			TransactionID:   "t-1",
			GroupID:         "g-1",
			LegNumber:       1,
			OperatorID:      operatorID,
			CurrencyFromID:  usdID,
			CurrencyToID:    bynID,
			Amount:          decimal.NewFromInt(100),
			ExchangedAmount: decimal.NewFromInt(320),
			ChangeInBase:    decimal.Zero,
			RateFrom:        decimal.RequireFromString("3.2"),
			RateTo:          decimal.NewFromInt(1),
		}},
	}
	suite.exchangeService.On("PerformExchange", mock.Anything, mock.MatchedBy(func(req dto.ExchangeRequest) bool {
		return req.CurrencyFromID == usdID && req.CurrencyToID == bynID &&
			req.AmountSold.Equal(decimal.NewFromInt(100)) && req.AmountToGet == nil
	}), operatorID).Return(result, nil).Once()

	w := suite.asOperator(http.MethodPost, "/api/v1/exchange",
		`{"currencyFromID":"`+usdID+`","currencyToID":"`+bynID+`","amountSold":"100"}`)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.ExchangeResponse
	suite.decode(w, &resp)
	suite.Equal("g-1", resp.GroupID)
	suite.True(resp.ExchangedAmount.Equal(decimal.NewFromInt(320)))
	suite.True(resp.CurrencyFrom.AmountInCash.Equal(decimal.NewFromInt(600)))
	suite.Require().Len(resp.Transactions, 1)
	suite.Equal(operatorID, resp.Transactions[0].OperatorID)
}

func (suite *HandlerTestSuite) TestPerformExchange_InsufficientTill() {
	suite.exchangeService.On("PerformExchange", mock.Anything, mock.Anything, operatorID).
		Return(nil, apperrors.NewInsufficientTillError("Euro", decimal.NewFromInt(500), decimal.NewFromInt(20))).Once()

	w := suite.asOperator(http.MethodPost, "/api/v1/exchange",
		`{"currencyFromID":"`+bynID+`","currencyToID":"`+eurID+`","amountSold":"2000"}`)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal("till for Euro cannot pay out 500, available 20", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestPerformExchange_RateNotFound() {
	suite.exchangeService.On("PerformExchange", mock.Anything, mock.Anything, operatorID).
		Return(nil, apperrors.ErrRateNotFound).Once()

	w := suite.asOperator(http.MethodPost, "/api/v1/exchange",
		`{"currencyFromID":"`+usdID+`","currencyToID":"`+bynID+`","amountSold":"10"}`)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal(apperrors.ErrRateNotFound.Error(), suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestPerformExchange_Validation() {
	tests := []struct {
		name string
		body string
	}{
		{"same currency", `{"currencyFromID":"` + usdID + `","currencyToID":"` + usdID + `","amountSold":"10"}`},
		{"zero amount", `{"currencyFromID":"` + usdID + `","currencyToID":"` + bynID + `","amountSold":"0"}`},
		{"negative amount to get", `{"currencyFromID":"` + bynID + `","currencyToID":"` + usdID + `","amountSold":"100","amountToGet":"-5"}`},
		{"amount sold finer than a cent", `{"currencyFromID":"` + usdID + `","currencyToID":"` + bynID + `","amountSold":"10.005"}`},
		{"amount to get finer than a cent", `{"currencyFromID":"` + bynID + `","currencyToID":"` + usdID + `","amountSold":"100","amountToGet":"5.559"}`},
		{"missing amount", `{"currencyFromID":"` + usdID + `","currencyToID":"` + bynID + `"}`},
		{"bad id", `{"currencyFromID":"usd","currencyToID":"` + bynID + `","amountSold":"10"}`},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.asOperator(http.MethodPost, "/api/v1/exchange", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	suite.exchangeService.AssertNotCalled(suite.T(), "PerformExchange", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestQuoteExchange_CrossCurrency() {
	legs := []domain.ExchangeQuote{
		{RateFrom: decimal.RequireFromString("3.2"), RateTo: decimal.NewFromInt(1), AmountInBase: decimal.NewFromInt(320), ExchangedAmount: decimal.NewFromInt(320), ChangeInBase: decimal.Zero},
		{RateFrom: decimal.NewFromInt(1), RateTo: decimal.RequireFromString("3.5"), AmountInBase: decimal.NewFromInt(320), ExchangedAmount: decimal.NewFromInt(91), ChangeInBase: decimal.RequireFromString("1.5")},
	}
	suite.exchangeService.On("QuoteExchange", mock.Anything, mock.MatchedBy(func(req dto.ExchangeRequest) bool {
		return req.CurrencyFromID == usdID && req.CurrencyToID == eurID
	})).Return(legs, nil).Once()

	w := suite.asOperator(http.MethodPost, "/api/v1/exchange/quote",
		`{"currencyFromID":"`+usdID+`","currencyToID":"`+eurID+`","amountSold":100}`)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ExchangeQuoteResponse
	suite.decode(w, &resp)
	suite.Len(resp.Legs, 2)
	suite.True(resp.ExchangedAmount.Equal(decimal.NewFromInt(91)))
	suite.True(resp.ChangeInBase.Equal(decimal.RequireFromString("1.5")))
	suite.exchangeService.AssertNotCalled(suite.T(), "PerformExchange", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestQuoteExchange_ExceedsConvertible() {
	suite.exchangeService.On("QuoteExchange", mock.Anything, mock.MatchedBy(func(req dto.ExchangeRequest) bool {
		return req.AmountToGet != nil && req.AmountToGet.Equal(decimal.NewFromInt(40))
	})).Return(nil, apperrors.ErrAmountExceedsConvertible).Once()

	w := suite.asOperator(http.MethodPost, "/api/v1/exchange/quote",
		`{"currencyFromID":"`+bynID+`","currencyToID":"`+usdID+`","amountSold":"100","amountToGet":"40"}`)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}
