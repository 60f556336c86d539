package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	rates := rg.Group("/exchange-rates")
	{
		rates.GET("", h.listExchangeRates)
		rates.GET("/effective/:currencyID", h.getEffectiveRate)
		rates.POST("", adminOnly, h.createExchangeRate)
		rates.POST("/import", adminOnly, h.importExchangeRate)
		rates.DELETE("/:exchangeRateID", adminOnly, h.deleteExchangeRate)
	}
}

// createExchangeRate godoc
// @Summary Add a manual exchange rate
// @Description Stores a rate to the base currency. An unknown currency code opens a new till with amountInCash; otherwise amountInCash tops up the existing till.
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Failed to create exchange rate"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("currency_code", req.CurrencyCode))
	rate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to create exchange rate")
		return
	}

	logger.Info("Exchange rate created", slog.String("exchange_rate_id", rate.ExchangeRateID), slog.String("rate", rate.RateToBase.String()))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// importExchangeRate godoc
// @Summary Import the official exchange rate
// @Description Fetches the official rate of a currency from the national bank, applies the optional markup and stores it.
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   import body dto.ImportExchangeRateRequest true "Currency to import"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 422 {object} ErrorResponse "Currency unknown to the rate source"
// @Failure 502 {object} ErrorResponse "Rate source unavailable"
// @Failure 500 {object} ErrorResponse "Failed to import exchange rate"
// @Security BearerAuth
// @Router /exchange-rates/import [post]
func (h *exchangeRateHandler) importExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ImportExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("currency_code", req.CurrencyCode))
	rate, err := h.exchangeRateService.ImportExchangeRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, logger, err, "Failed to import exchange rate")
		return
	}

	logger.Info("Exchange rate imported", slog.String("exchange_rate_id", rate.ExchangeRateID), slog.String("rate", rate.RateToBase.String()))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// listExchangeRates godoc
// @Summary List exchange rates
// @Description Lists stored rates with their currency and till balance, newest rate date first.
// @Tags exchange-rates
// @Produce  json
// @Param   currencyID query string false "Only rates of this currency"
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list exchange rates"
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListExchangeRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	rates, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(), params.CurrencyID)
	if err != nil {
		respondError(c, logger, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// getEffectiveRate godoc
// @Summary Get the effective exchange rate
// @Description Returns the rate of a currency in force on a date: the latest rate dated on or before it.
// @Tags exchange-rates
// @Produce  json
// @Param   currencyID path string true "Currency ID"
// @Param   asOf query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 422 {object} ErrorResponse "No rate in force"
// @Failure 500 {object} ErrorResponse "Failed to retrieve exchange rate"
// @Security BearerAuth
// @Router /exchange-rates/effective/{currencyID} [get]
func (h *exchangeRateHandler) getEffectiveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencyID, ok := uuidParam(c, "currencyID")
	if !ok {
		return
	}
	var params dto.EffectiveRateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	asOf := time.Now().UTC()
	if params.AsOf != "" {
		// Format already checked by the binding.
		asOf, _ = time.Parse(time.DateOnly, params.AsOf)
	}

	rate, err := h.exchangeRateService.GetEffectiveRate(c.Request.Context(), currencyID, asOf)
	if err != nil {
		respondError(c, logger.With(slog.String("currency_id", currencyID)), err, "Failed to retrieve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// deleteExchangeRate godoc
// @Summary Delete an exchange rate
// @Description Removes a stored rate; the previous rate of the currency comes back into force.
// @Tags exchange-rates
// @Param   exchangeRateID path string true "Exchange rate ID"
// @Success 204
// @Failure 400 {object} ErrorResponse "Invalid exchange rate ID"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Exchange rate not found"
// @Failure 500 {object} ErrorResponse "Failed to delete exchange rate"
// @Security BearerAuth
// @Router /exchange-rates/{exchangeRateID} [delete]
func (h *exchangeRateHandler) deleteExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rateID, ok := uuidParam(c, "exchangeRateID")
	if !ok {
		return
	}

	logger = logger.With(slog.String("exchange_rate_id", rateID))
	if err := h.exchangeRateService.DeleteExchangeRate(c.Request.Context(), rateID); err != nil {
		respondError(c, logger, err, "Failed to delete exchange rate")
		return
	}

	logger.Info("Exchange rate deleted")
	c.Status(http.StatusNoContent)
}
