package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/middleware"
	"github.com/SscSPs/currency_exchange_app/internal/utils/export"
	"github.com/SscSPs/currency_exchange_app/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportPageSize  = 500
)

// transactionHandler exposes the exchange ledger. Operators only see their own entries.
type transactionHandler struct {
	historyService portssvc.HistorySvcFacade
}

func newTransactionHandler(hs portssvc.HistorySvcFacade) *transactionHandler {
	return &transactionHandler{
		historyService: hs,
	}
}

// registerTransactionRoutes registers the ledger routes.
func registerTransactionRoutes(rg *gin.RouterGroup, historyService portssvc.HistorySvcFacade) {
	h := newTransactionHandler(historyService)

	txns := rg.Group("/transactions")
	{
		txns.GET("", h.listTransactions)
		txns.GET("/export", h.exportTransactions)
		txns.GET("/:transactionID", h.getTransaction)
		txns.DELETE("/:transactionID", middleware.RequireRole(domain.RoleAdmin), h.deleteTransaction)
	}
}

// requester identifies the signed-in user for visibility checks.
func requester(c *gin.Context) (domain.User, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return domain.User{}, false
	}
	role, ok := middleware.GetUserRoleFromContext(c)
	if !ok {
		return domain.User{}, false
	}
	return domain.User{UserID: userID, Role: role}, true
}

// listTransactions godoc
// @Summary List exchange transactions
// @Description Lists ledger entries newest first. Admins see every entry, operators their own. Pass nextToken from the previous page to continue.
// @Tags transactions
// @Produce  json
// @Param   limit query int false "Page size (1-500)" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	user, ok := requester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	var cursor *pagination.Cursor
	if params.NextToken != "" {
		decoded, err := pagination.DecodeToken(params.NextToken)
		if err != nil {
			logger.Warn("Invalid pagination token", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid nextToken"})
			return
		}
		cursor = decoded
	}

	txns, next, err := h.historyService.ListTransactions(c.Request.Context(), user, params.Limit, cursor)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	resp := dto.ListTransactionsResponse{Transactions: make([]dto.ExchangeTransactionResponse, len(txns))}
	for i := range txns {
		resp.Transactions[i] = dto.ToExchangeTransactionViewResponse(&txns[i])
	}
	if next != nil {
		token := pagination.EncodeToken(*next)
		resp.NextToken = &token
	}
	c.JSON(http.StatusOK, resp)
}

// exportTransactions godoc
// @Summary Export exchange transactions
// @Description Downloads every ledger entry visible to the caller as an XLSX workbook, newest first.
// @Tags transactions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to export transactions"
// @Security BearerAuth
// @Router /transactions/export [get]
func (h *transactionHandler) exportTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	user, ok := requester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var all []domain.ExchangeTransactionView
	var cursor *pagination.Cursor
	for {
		page, next, err := h.historyService.ListTransactions(c.Request.Context(), user, exportPageSize, cursor)
		if err != nil {
			respondError(c, logger, err, "Failed to export transactions")
			return
		}
		all = append(all, page...)
		if next == nil {
			break
		}
		cursor = next
	}

	var buf bytes.Buffer
	if err := export.WriteTransactionsXLSX(&buf, all); err != nil {
		respondError(c, logger, err, "Failed to export transactions")
		return
	}

	fileName := fmt.Sprintf("transactions_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	logger.Info("Transactions exported", slog.Int("rows", len(all)))
}

// getTransaction godoc
// @Summary Get an exchange transaction
// @Description Retrieves one ledger entry. Operators can only read their own.
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.ExchangeTransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid transaction ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	user, ok := requester(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	transactionID, ok := uuidParam(c, "transactionID")
	if !ok {
		return
	}

	txn, err := h.historyService.GetTransaction(c.Request.Context(), user, transactionID)
	if err != nil {
		respondError(c, logger.With(slog.String("transaction_id", transactionID)), err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeTransactionViewResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete an exchange transaction
// @Description Removes a ledger entry. Till balances are not reversed.
// @Tags transactions
// @Param   transactionID path string true "Transaction ID"
// @Success 204
// @Failure 400 {object} ErrorResponse "Invalid transaction ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to delete transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID, ok := uuidParam(c, "transactionID")
	if !ok {
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	if err := h.historyService.DeleteTransaction(c.Request.Context(), transactionID); err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted")
	c.Status(http.StatusNoContent)
}
