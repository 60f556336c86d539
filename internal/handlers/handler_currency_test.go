package handlers_test

import (
	"net/http"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestListCurrencies_AnyRole() {
	currencies := []domain.Currency{
		{CurrencyID: bynID, Code: "BYN", Name: "Belarusian Ruble", IsBase: true, AmountInCash: decimal.NewFromInt(1000)},
		{CurrencyID: usdID, Code: "USD", Name: "US Dollar", AmountInCash: decimal.RequireFromString("250.5")},
	}
	suite.currencyService.On("ListCurrencies", mock.Anything, true).Return(currencies, nil).Once()

	w := suite.asOperator(http.MethodGet, "/api/v1/currencies?includeArchived=true", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp []dto.CurrencyResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp, 2)
	suite.True(resp[0].IsBase)
	suite.True(resp[1].AmountInCash.Equal(decimal.RequireFromString("250.5")))
}

func (suite *HandlerTestSuite) TestCreateCurrency_OperatorForbidden() {
	w := suite.asOperator(http.MethodPost, "/api/v1/currencies", `{"code":"USD","name":"US Dollar"}`)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.currencyService.AssertNotCalled(suite.T(), "CreateCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateCurrency_Success() {
	created := &domain.Currency{CurrencyID: usdID, Code: "USD", Name: "US Dollar", AmountInCash: decimal.NewFromInt(500)}
	suite.currencyService.On("CreateCurrency", mock.Anything, mock.MatchedBy(func(req dto.CreateCurrencyRequest) bool {
		return req.Code == "USD" && req.Name == "US Dollar" && !req.IsBase && req.AmountInCash.Equal(decimal.NewFromInt(500))
	}), adminID).Return(created, nil).Once()

	w := suite.asAdmin(http.MethodPost, "/api/v1/currencies", `{"code":"USD","name":"US Dollar","amountInCash":"500"}`)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.CurrencyResponse
	suite.decode(w, &resp)
	suite.Equal(usdID, resp.CurrencyID)
}

func (suite *HandlerTestSuite) TestCreateCurrency_Validation() {
	tests := []struct {
		name string
		body string
	}{
		{"negative cash", `{"code":"USD","name":"US Dollar","amountInCash":"-1"}`},
		{"lower case code", `{"code":"usd","name":"US Dollar"}`},
		{"long code", `{"code":"USDT","name":"Tether"}`},
		{"missing name", `{"code":"USD"}`},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.asAdmin(http.MethodPost, "/api/v1/currencies", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	suite.currencyService.AssertNotCalled(suite.T(), "CreateCurrency", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateCurrency_SecondBase() {
	suite.currencyService.On("CreateCurrency", mock.Anything, mock.Anything, adminID).
		Return(nil, apperrors.NewAppError(http.StatusConflict, "a base currency already exists", apperrors.ErrDuplicate)).Once()

	w := suite.asAdmin(http.MethodPost, "/api/v1/currencies", `{"code":"RUB","name":"Russian Ruble","isBase":true}`)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("a base currency already exists", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestGetCurrency_InvalidID() {
	w := suite.asOperator(http.MethodGet, "/api/v1/currencies/not-a-uuid", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetCurrency_NotFound() {
	suite.currencyService.On("GetCurrencyByID", mock.Anything, usdID).Return(nil, apperrors.NewNotFoundError("currency not found")).Once()

	w := suite.asOperator(http.MethodGet, "/api/v1/currencies/"+usdID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestTopUpCurrency() {
	suite.Run("non-positive amount", func() {
		w := suite.asAdmin(http.MethodPost, "/api/v1/currencies/"+usdID+"/top-up", `{"amount":"0"}`)
		suite.Equal(http.StatusBadRequest, w.Code)
	})

	suite.Run("success", func() {
		updated := &domain.Currency{CurrencyID: usdID, Code: "USD", Name: "US Dollar", AmountInCash: decimal.RequireFromString("600.25")}
		suite.currencyService.On("TopUpCurrency", mock.Anything, usdID, mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.RequireFromString("100.25"))
		}), adminID).Return(updated, nil).Once()

		w := suite.asAdmin(http.MethodPost, "/api/v1/currencies/"+usdID+"/top-up", `{"amount":100.25}`)

		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		var resp dto.CurrencyResponse
		suite.decode(w, &resp)
		suite.True(resp.AmountInCash.Equal(decimal.RequireFromString("600.25")))
	})
}

func (suite *HandlerTestSuite) TestArchiveCurrency_Base() {
	suite.currencyService.On("ArchiveCurrency", mock.Anything, bynID, adminID).
		Return(apperrors.NewValidationError("the base currency cannot be archived")).Once()

	w := suite.asAdmin(http.MethodPost, "/api/v1/currencies/"+bynID+"/archive", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("the base currency cannot be archived", suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestUnarchiveCurrency() {
	suite.currencyService.On("UnarchiveCurrency", mock.Anything, usdID, adminID).Return(nil).Once()

	w := suite.asAdmin(http.MethodPost, "/api/v1/currencies/"+usdID+"/unarchive", nil)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteCurrency_Referenced() {
	suite.currencyService.On("DeleteCurrency", mock.Anything, usdID).
		Return(apperrors.NewAppError(http.StatusConflict, "currency is referenced by exchange transactions", apperrors.ErrReferentialIntegrity)).Once()

	w := suite.asAdmin(http.MethodDelete, "/api/v1/currencies/"+usdID, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteCurrency_Success() {
	suite.currencyService.On("DeleteCurrency", mock.Anything, usdID).Return(nil).Once()

	w := suite.asAdmin(http.MethodDelete, "/api/v1/currencies/"+usdID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
}
