package handlers_test

import (
	"errors"
	"net/http"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestListExchangeRates() {
	rateDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	listing := []domain.ExchangeRateListing{{
		ExchangeRate: domain.ExchangeRate{
			ExchangeRateID: "r-1",
			CurrencyID:     usdID,
			RateToBase:     decimal.RequireFromString("3.253"),
			RateDate:       rateDate,
			Source:         domain.RateSourceNBRB,
		},
		CurrencyCode: "USD",
		CurrencyName: "US Dollar",
		AmountInCash: decimal.NewFromInt(500),
	}}
	suite.exchangeRateService.On("ListExchangeRates", mock.Anything, usdID).Return(listing, nil).Once()

	w := suite.asOperator(http.MethodGet, "/api/v1/exchange-rates?currencyID="+usdID, nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp []dto.ExchangeRateResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp, 1)
	suite.Equal("USD", resp[0].CurrencyCode)
	suite.Require().NotNil(resp[0].AmountInCash)
	suite.True(resp[0].AmountInCash.Equal(decimal.NewFromInt(500)))
	suite.True(resp[0].RateToBase.Equal(decimal.RequireFromString("3.253")))
}

func (suite *HandlerTestSuite) TestGetEffectiveRate_AsOf() {
	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rate := &domain.ExchangeRate{ExchangeRateID: "r-1", CurrencyID: usdID, RateToBase: decimal.RequireFromString("3.2"), RateDate: asOf}
	suite.exchangeRateService.On("GetEffectiveRate", mock.Anything, usdID, asOf).Return(rate, nil).Once()

	w := suite.asOperator(http.MethodGet, "/api/v1/exchange-rates/effective/"+usdID+"?asOf=2024-03-01", nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ExchangeRateResponse
	suite.decode(w, &resp)
	suite.Equal("r-1", resp.ExchangeRateID)
}

func (suite *HandlerTestSuite) TestGetEffectiveRate_BadDate() {
	w := suite.asOperator(http.MethodGet, "/api/v1/exchange-rates/effective/"+usdID+"?asOf=01.03.2024", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestGetEffectiveRate_NoRate() {
	suite.exchangeRateService.On("GetEffectiveRate", mock.Anything, usdID, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrRateNotFound).Once()

	w := suite.asOperator(http.MethodGet, "/api/v1/exchange-rates/effective/"+usdID, nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlerTestSuite) TestCreateExchangeRate() {
	suite.Run("operator forbidden", func() {
		w := suite.asOperator(http.MethodPost, "/api/v1/exchange-rates", `{"currencyCode":"USD","rateToBase":"3.2"}`)
		suite.Equal(http.StatusForbidden, w.Code)
	})

	suite.Run("rate must be positive", func() {
		w := suite.asAdmin(http.MethodPost, "/api/v1/exchange-rates", `{"currencyCode":"USD","rateToBase":"0"}`)
		suite.Equal(http.StatusBadRequest, w.Code)
	})

	suite.Run("created", func() {
		rate := &domain.ExchangeRate{ExchangeRateID: "r-2", CurrencyID: usdID, RateToBase: decimal.RequireFromString("3.253"), Source: domain.RateSourceManual}
		suite.exchangeRateService.On("CreateExchangeRate", mock.Anything, mock.MatchedBy(func(req dto.CreateExchangeRateRequest) bool {
			return req.CurrencyCode == "USD" && req.RateToBase.Equal(decimal.RequireFromString("3.2525")) &&
				req.AmountInCash.Equal(decimal.NewFromInt(100)) && req.RateDate == nil
		}), adminID).Return(rate, nil).Once()

		w := suite.asAdmin(http.MethodPost, "/api/v1/exchange-rates",
			`{"currencyCode":"USD","currencyName":"US Dollar","rateToBase":"3.2525","amountInCash":"100"}`)

		suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		var resp dto.ExchangeRateResponse
		suite.decode(w, &resp)
		suite.Equal(domain.RateSourceManual, resp.Source)
	})
}

func (suite *HandlerTestSuite) TestImportExchangeRate() {
	suite.Run("markup above 100", func() {
		w := suite.asAdmin(http.MethodPost, "/api/v1/exchange-rates/import", `{"currencyCode":"USD","markupPercent":"150"}`)
		suite.Equal(http.StatusBadRequest, w.Code)
	})

	suite.Run("rate source down", func() {
		suite.exchangeRateService.On("ImportExchangeRate", mock.Anything, mock.Anything, adminID).
			Return(nil, apperrors.NewAppError(http.StatusBadGateway, "rate source unavailable", errors.New("dial tcp: timeout"))).Once()

		w := suite.asAdmin(http.MethodPost, "/api/v1/exchange-rates/import", `{"currencyCode":"USD","markupPercent":"2.5"}`)

		suite.Equal(http.StatusBadGateway, w.Code)
		suite.Equal("rate source unavailable", suite.errorMessage(w))
	})
}

func (suite *HandlerTestSuite) TestDeleteExchangeRate() {
	rateID := "e0000000-0000-0000-0000-000000000001"
	suite.exchangeRateService.On("DeleteExchangeRate", mock.Anything, rateID).Return(apperrors.NewNotFoundError("exchange rate not found")).Once()

	w := suite.asAdmin(http.MethodDelete, "/api/v1/exchange-rates/"+rateID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}
