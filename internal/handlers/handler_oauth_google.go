package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 10 * 60 // seconds
	oauthCookiePath  = "/api/v1/auth/google"
)

// googleOAuthHandler signs in existing desk users with their Google account.
// Google sign-in never creates users; the verified email must belong to one.
type googleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
	secureCookies      bool
}

func newGoogleOAuthHandler(
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade,
	userService portssvc.UserSvcFacade,
	tokenService portssvc.TokenSvcFacade,
	secureCookies bool,
) *googleOAuthHandler {
	return &googleOAuthHandler{
		googleOAuthService: googleOAuthService,
		userService:        userService,
		tokenService:       tokenService,
		secureCookies:      secureCookies,
	}
}

// loginURL godoc
// @Summary Google consent URL
// @Description Returns the Google consent URL. The state is also set as a short-lived cookie and must be echoed back on exchange.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.GoogleLoginURLResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login-url [get]
func (h *googleOAuthHandler) loginURL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	state, err := h.googleOAuthService.GenerateStateString(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to start Google sign-in")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, oauthCookiePath, "", h.secureCookies, true)
	c.JSON(http.StatusOK, dto.GoogleLoginURLResponse{
		URL:   h.googleOAuthService.GetGoogleLoginURL(c.Request.Context(), state),
		State: state,
	})
}

// exchangeCode godoc
// @Summary Exchange Google authorization code
// @Description Exchanges the authorization code with Google, validates the ID token and signs in the user owning the verified email.
// @Tags auth
// @Accept json
// @Produce json
// @Param code body dto.GoogleCodeExchangeRequest true "Authorization code and state"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "No user with this email"
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *googleOAuthHandler) exchangeCode(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.GoogleCodeExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil || expectedState == "" || expectedState != req.State {
		logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	// The state is single use.
	c.SetCookie(oauthStateCookie, "", -1, oauthCookiePath, "", h.secureCookies, true)

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		respondError(c, logger, err, "Failed to exchange authorization code with Google")
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token not found in Google's token response")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to retrieve ID token from Google"})
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		respondError(c, logger, err, "Failed to validate Google ID token")
		return
	}

	email, _ := payload.Claims["email"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !emailVerified {
		logger.Warn("Google account has no verified email", slog.String("google_user_id", payload.Subject))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google account email is not verified"})
		return
	}

	user, err := h.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Google sign-in for unknown email", slog.String("google_user_id", payload.Subject))
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "No user is registered for this Google account"})
			return
		}
		respondError(c, logger, err, "Failed to sign in with Google")
		return
	}

	issueTokens(c, logger, h.userService, h.tokenService, user)
}
