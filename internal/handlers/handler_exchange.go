package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/middleware"
	"github.com/SscSPs/currency_exchange_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// exchangeHandler handles quoting and recording cash exchanges at the desk.
type exchangeHandler struct {
	exchangeService portssvc.ExchangeSvcFacade
	posthogClient   *utils.PosthogClientWrapper
}

func newExchangeHandler(es portssvc.ExchangeSvcFacade, posthogClient *utils.PosthogClientWrapper) *exchangeHandler {
	return &exchangeHandler{
		exchangeService: es,
		posthogClient:   posthogClient,
	}
}

// registerExchangeRoutes registers the exchange routes. Only operators exchange cash.
func registerExchangeRoutes(rg *gin.RouterGroup, exchangeService portssvc.ExchangeSvcFacade, posthogClient *utils.PosthogClientWrapper) {
	h := newExchangeHandler(exchangeService, posthogClient)

	exchange := rg.Group("/exchange", middleware.RequireRole(domain.RoleOperator))
	{
		exchange.POST("/quote", h.quoteExchange)
		exchange.POST("", h.performExchange)
	}
}

// quoteExchange godoc
// @Summary Quote an exchange
// @Description Prices an exchange against the current rates and tills without recording it. Without amountToGet the desk pays out as much of the target currency as the sold amount buys; with it, exactly that amount plus change in the base currency.
// @Tags exchange
// @Accept  json
// @Produce  json
// @Param   exchange body dto.ExchangeRequest true "Exchange details"
// @Success 200 {object} dto.ExchangeQuoteResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Failure 422 {object} ErrorResponse "No rate, insufficient till or amount exceeds convertible"
// @Failure 500 {object} ErrorResponse "Failed to quote exchange"
// @Security BearerAuth
// @Router /exchange/quote [post]
func (h *exchangeHandler) quoteExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	legs, err := h.exchangeService.QuoteExchange(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to quote exchange")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeQuoteResponse(req, legs))
}

// performExchange godoc
// @Summary Perform an exchange
// @Description Records an exchange and adjusts the tills in one transaction. A cross-currency exchange is recorded as two legs through the base currency.
// @Tags exchange
// @Accept  json
// @Produce  json
// @Param   exchange body dto.ExchangeRequest true "Exchange details"
// @Success 201 {object} dto.ExchangeResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Currency not found"
// @Failure 422 {object} ErrorResponse "No rate, insufficient till or amount exceeds convertible"
// @Failure 500 {object} ErrorResponse "Failed to perform exchange"
// @Security BearerAuth
// @Router /exchange [post]
func (h *exchangeHandler) performExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("currency_from_id", req.CurrencyFromID),
		slog.String("currency_to_id", req.CurrencyToID),
		slog.String("amount_sold", req.AmountSold.String()),
	)
	result, err := h.exchangeService.PerformExchange(c.Request.Context(), req, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to perform exchange")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "exchange_recorded", map[string]any{
		"currency_from": result.CurrencyFrom.Code,
		"currency_to":   result.CurrencyTo.Code,
		"legs":          len(result.Legs),
		"fixed_amount":  req.AmountToGet != nil,
	})
	c.JSON(http.StatusCreated, dto.ToExchangeResponse(result))
}
