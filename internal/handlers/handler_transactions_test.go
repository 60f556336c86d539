package handlers_test

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/utils/export"
	"github.com/SscSPs/currency_exchange_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"
)

const txnID = "f0000000-0000-0000-0000-000000000001"

func ledgerEntry(id string, createdAt time.Time) domain.ExchangeTransactionView {
	return domain.ExchangeTransactionView{
		ExchangeTransaction: domain.ExchangeTransaction{
			TransactionID:   id,
			GroupID:         "g-" + id,
			LegNumber:       1,
			OperatorID:      operatorID,
			CurrencyFromID:  usdID,
			CurrencyToID:    bynID,
			Amount:          decimal.NewFromInt(100),
			ExchangedAmount: decimal.NewFromInt(320),
			ChangeInBase:    decimal.Zero,
			RateFrom:        decimal.RequireFromString("3.2"),
			RateTo:          decimal.NewFromInt(1),
			CreatedAt:       createdAt,
		},
		CurrencyFromName: "US Dollar",
		CurrencyToName:   "Belarusian Ruble",
		OperatorUsername: "cashier",
	}
}

func (suite *HandlerTestSuite) TestListTransactions_OperatorScopeAndPaging() {
	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	incoming := pagination.Cursor{CreatedAt: createdAt.Add(time.Hour), ID: "f0000000-0000-0000-0000-000000000000"}
	next := &pagination.Cursor{CreatedAt: createdAt, ID: txnID}
	operator := domain.User{UserID: operatorID, Role: domain.RoleOperator}

	suite.historyService.On("ListTransactions", mock.Anything, operator, 1, mock.MatchedBy(func(c *pagination.Cursor) bool {
		return c != nil && c.ID == incoming.ID && c.CreatedAt.Equal(incoming.CreatedAt)
	})).Return([]domain.ExchangeTransactionView{ledgerEntry(txnID, createdAt)}, next, nil).Once()

	w := suite.asOperator(http.MethodGet, "/api/v1/transactions?limit=1&nextToken="+pagination.EncodeToken(incoming), nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListTransactionsResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp.Transactions, 1)
	suite.Equal("cashier", resp.Transactions[0].OperatorUsername)
	suite.Require().NotNil(resp.NextToken)

	decoded, err := pagination.DecodeToken(*resp.NextToken)
	suite.Require().NoError(err)
	suite.Equal(txnID, decoded.ID)
	suite.True(decoded.CreatedAt.Equal(createdAt))
}

func (suite *HandlerTestSuite) TestListTransactions_LastPageHasNoToken() {
	admin := domain.User{UserID: adminID, Role: domain.RoleAdmin}
	suite.historyService.On("ListTransactions", mock.Anything, admin, 50, (*pagination.Cursor)(nil)).
		Return([]domain.ExchangeTransactionView{}, nil, nil).Once()

	w := suite.asAdmin(http.MethodGet, "/api/v1/transactions", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.decode(w, &resp)
	suite.Empty(resp.Transactions)
	suite.Nil(resp.NextToken)
}

func (suite *HandlerTestSuite) TestListTransactions_BadInput() {
	suite.Run("token", func() {
		w := suite.asAdmin(http.MethodGet, "/api/v1/transactions?nextToken=not-base64!!", nil)
		suite.Equal(http.StatusBadRequest, w.Code)
	})
	suite.Run("token with non-uuid id", func() {
		token := base64.URLEncoding.EncodeToString([]byte("2024-03-01T10:00:00Z|not-a-uuid"))
		w := suite.asAdmin(http.MethodGet, "/api/v1/transactions?nextToken="+token, nil)
		suite.Equal(http.StatusBadRequest, w.Code)
		suite.Equal("Invalid nextToken", suite.errorMessage(w))
	})
	suite.Run("limit", func() {
		w := suite.asAdmin(http.MethodGet, "/api/v1/transactions?limit=1000", nil)
		suite.Equal(http.StatusBadRequest, w.Code)
	})
}

func (suite *HandlerTestSuite) TestGetTransaction_HiddenFromOtherOperators() {
	operator := domain.User{UserID: operatorID, Role: domain.RoleOperator}
	suite.historyService.On("GetTransaction", mock.Anything, operator, txnID).
		Return(nil, apperrors.NewNotFoundError("transaction not found")).Once()

	w := suite.asOperator(http.MethodGet, "/api/v1/transactions/"+txnID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteTransaction() {
	suite.Run("operator forbidden", func() {
		w := suite.asOperator(http.MethodDelete, "/api/v1/transactions/"+txnID, nil)
		suite.Equal(http.StatusForbidden, w.Code)
	})
	suite.Run("admin", func() {
		suite.historyService.On("DeleteTransaction", mock.Anything, txnID).Return(nil).Once()
		w := suite.asAdmin(http.MethodDelete, "/api/v1/transactions/"+txnID, nil)
		suite.Equal(http.StatusNoContent, w.Code)
	})
}

func (suite *HandlerTestSuite) TestExportTransactions_ReadsAllPages() {
	admin := domain.User{UserID: adminID, Role: domain.RoleAdmin}
	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	next := &pagination.Cursor{CreatedAt: createdAt, ID: "t-1"}

	suite.historyService.On("ListTransactions", mock.Anything, admin, 500, (*pagination.Cursor)(nil)).
		Return([]domain.ExchangeTransactionView{ledgerEntry("t-1", createdAt)}, next, nil).Once()
	suite.historyService.On("ListTransactions", mock.Anything, admin, 500, next).
		Return([]domain.ExchangeTransactionView{ledgerEntry("t-2", createdAt.Add(-time.Minute))}, nil, nil).Once()

	w := suite.asAdmin(http.MethodGet, "/api/v1/transactions/export", nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "attachment; filename=")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	suite.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows(export.TransactionsSheet)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 3)
	suite.Equal("t-1", rows[1][1])
	suite.Equal("t-2", rows[2][1])
}
