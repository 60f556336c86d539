package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_exchange_app/internal/core/ports/services"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/middleware"
	"github.com/SscSPs/currency_exchange_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles password login and refresh token requests.
type authHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
}

func newAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade) *authHandler {
	return &authHandler{
		userService:  us,
		tokenService: ts,
	}
}

// registerAuthRoutes sets up the public authentication routes. Login is throttled per client IP.
func registerAuthRoutes(rg *gin.RouterGroup, loginLimiter *limiter.Limiter, services *portssvc.ServiceContainer, secureCookies bool) {
	h := newAuthHandler(services.User, services.Token)
	g := newGoogleOAuthHandler(services.GoogleOAuth, services.User, services.Token, secureCookies)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimit(loginLimiter), h.login)
		auth.POST("/refresh", h.refreshToken)
		auth.POST("/logout", h.logout)
		auth.GET("/google/login-url", g.loginURL)
		auth.POST("/google/exchange-code", middleware.RateLimit(loginLimiter), g.exchangeCode)
	}
}

// login godoc
// @Summary User login
// @Description Authenticates a desk user and returns an access token and a refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Login rejected", slog.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		respondError(c, logger, err, "Failed to log in")
		return
	}

	issueTokens(c, logger, h.userService, h.tokenService, user)
}

// refreshToken godoc
// @Summary Refresh access token
// @Description Issues a new access token for a valid, unexpired refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refreshToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		respondError(c, logger, err, "Failed to refresh token")
		return
	}

	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, logger, err, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, dto.RefreshTokenResponse{Token: token, ExpiresAt: expiresAt})
}

// logout godoc
// @Summary Log out
// @Description Revokes the refresh token so it can no longer be exchanged for access tokens.
// @Tags auth
// @Accept json
// @Param refresh body dto.RefreshTokenRequest true "Refresh token to revoke"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), req.UserID, req.RefreshToken)
	if err != nil && !errors.Is(err, apperrors.ErrRefreshTokenExpired) {
		respondError(c, logger, err, "Failed to log out")
		return
	}
	userID := req.UserID
	if user != nil {
		userID = user.UserID
	}
	if err := h.userService.ClearRefreshToken(c.Request.Context(), userID); err != nil {
		respondError(c, logger, err, "Failed to log out")
		return
	}
	logger.Info("User logged out", slog.String("user_id", userID))
	c.Status(http.StatusNoContent)
}

// issueTokens generates an access/refresh token pair for user, stores the refresh
// token hash and writes the login response.
func issueTokens(c *gin.Context, logger *slog.Logger, us portssvc.UserWriterSvc, ts portssvc.TokenSvcFacade, user *domain.User) {
	ctx := c.Request.Context()
	token, expiresAt, err := ts.GenerateAccessToken(ctx, user)
	if err != nil {
		respondError(c, logger, err, "Failed to generate token")
		return
	}
	refreshToken, refreshExpiresAt, err := ts.GenerateRefreshToken(ctx, user)
	if err != nil {
		respondError(c, logger, err, "Failed to generate token")
		return
	}
	if err := us.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(refreshToken), refreshExpiresAt); err != nil {
		respondError(c, logger, err, "Failed to store refresh token")
		return
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:                 token,
		ExpiresAt:             expiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
		User:                  dto.ToUserResponse(user),
	})
}
