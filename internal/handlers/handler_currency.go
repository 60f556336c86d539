package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to currencies and their tills.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
	}
}

// registerCurrencyRoutes registers routes related to currencies. Reads are open to
// every signed-in user; till changes are admin only.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:currencyID", h.getCurrency)
		currencies.POST("", adminOnly, h.createCurrency)
		currencies.POST("/:currencyID/top-up", adminOnly, h.topUpCurrency)
		currencies.POST("/:currencyID/archive", adminOnly, h.archiveCurrency)
		currencies.POST("/:currencyID/unarchive", adminOnly, h.unarchiveCurrency)
		currencies.DELETE("/:currencyID", adminOnly, h.deleteCurrency)
	}
}

// createCurrency godoc
// @Summary Create a new currency
// @Description Opens a till for a new currency (admin operation). At most one currency may be the base currency.
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} dto.CurrencyResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "Currency already exists or a base currency is already set"
// @Failure 500 {object} ErrorResponse "Failed to create currency"
// @Security BearerAuth
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("currency_code", req.Code))
	createdCurrency, err := h.currencyService.CreateCurrency(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create currency")
		return
	}

	logger.Info("Currency created", slog.String("currency_id", createdCurrency.CurrencyID))
	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(createdCurrency))
}

// listCurrencies godoc
// @Summary List currencies
// @Description Lists currencies with their till balances, base currency first.
// @Tags currencies
// @Produce  json
// @Param   includeArchived query bool false "Include archived currencies"
// @Success 200 {array} dto.CurrencyResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list currencies"
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCurrenciesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context(), params.IncludeArchived)
	if err != nil {
		respondError(c, logger, err, "Failed to list currencies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// getCurrency godoc
// @Summary Get a currency
// @Description Retrieves a currency and its till balance.
// @Tags currencies
// @Produce  json
// @Param   currencyID path string true "Currency ID"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} ErrorResponse "Invalid currency ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve currency"
// @Security BearerAuth
// @Router /currencies/{currencyID} [get]
func (h *currencyHandler) getCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyID, ok := uuidParam(c, "currencyID")
	if !ok {
		return
	}

	currency, err := h.currencyService.GetCurrencyByID(c.Request.Context(), currencyID)
	if err != nil {
		respondError(c, logger.With(slog.String("currency_id", currencyID)), err, "Failed to retrieve currency")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// topUpCurrency godoc
// @Summary Top up a till
// @Description Adds cash to the till of a currency (admin operation).
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currencyID path string true "Currency ID"
// @Param   topUp body dto.TopUpCurrencyRequest true "Amount to add"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Failure 500 {object} ErrorResponse "Failed to top up till"
// @Security BearerAuth
// @Router /currencies/{currencyID}/top-up [post]
func (h *currencyHandler) topUpCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyID, ok := uuidParam(c, "currencyID")
	if !ok {
		return
	}
	var req dto.TopUpCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("currency_id", currencyID))
	currency, err := h.currencyService.TopUpCurrency(c.Request.Context(), currencyID, req.Amount, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to top up till")
		return
	}

	logger.Info("Till topped up", slog.String("amount", req.Amount.String()), slog.String("balance", currency.AmountInCash.String()))
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

// archiveCurrency godoc
// @Summary Archive a currency
// @Description Hides a currency from new exchanges. The base currency cannot be archived.
// @Tags currencies
// @Param   currencyID path string true "Currency ID"
// @Success 204
// @Failure 400 {object} ErrorResponse "Invalid input or base currency"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Failure 500 {object} ErrorResponse "Failed to archive currency"
// @Security BearerAuth
// @Router /currencies/{currencyID}/archive [post]
func (h *currencyHandler) archiveCurrency(c *gin.Context) {
	h.setArchived(c, true)
}

// unarchiveCurrency godoc
// @Summary Unarchive a currency
// @Description Makes an archived currency available for exchanges again.
// @Tags currencies
// @Param   currencyID path string true "Currency ID"
// @Success 204
// @Failure 400 {object} ErrorResponse "Invalid currency ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Failure 500 {object} ErrorResponse "Failed to unarchive currency"
// @Security BearerAuth
// @Router /currencies/{currencyID}/unarchive [post]
func (h *currencyHandler) unarchiveCurrency(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *currencyHandler) setArchived(c *gin.Context, archived bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyID, ok := uuidParam(c, "currencyID")
	if !ok {
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("currency_id", currencyID), slog.Bool("archived", archived))
	var err error
	if archived {
		err = h.currencyService.ArchiveCurrency(c.Request.Context(), currencyID, userID)
	} else {
		err = h.currencyService.UnarchiveCurrency(c.Request.Context(), currencyID, userID)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to update currency")
		return
	}

	logger.Info("Currency archive state changed")
	c.Status(http.StatusNoContent)
}

// deleteCurrency godoc
// @Summary Delete a currency
// @Description Deletes a currency together with its rates. Fails while any transaction references it.
// @Tags currencies
// @Param   currencyID path string true "Currency ID"
// @Success 204
// @Failure 400 {object} ErrorResponse "Invalid currency ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Failure 409 {object} ErrorResponse "Currency is referenced by transactions"
// @Failure 500 {object} ErrorResponse "Failed to delete currency"
// @Security BearerAuth
// @Router /currencies/{currencyID} [delete]
func (h *currencyHandler) deleteCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyID, ok := uuidParam(c, "currencyID")
	if !ok {
		return
	}

	logger = logger.With(slog.String("currency_id", currencyID))
	if err := h.currencyService.DeleteCurrency(c.Request.Context(), currencyID); err != nil {
		respondError(c, logger, err, "Failed to delete currency")
		return
	}

	logger.Info("Currency deleted")
	c.Status(http.StatusNoContent)
}
