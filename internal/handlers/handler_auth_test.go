package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/SscSPs/currency_exchange_app/internal/utils"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

func operatorUser() *domain.User {
	email := "cashier@example.com"
	return &domain.User{UserID: operatorID, Username: "cashier", Name: "Cashier", Email: &email, Role: domain.RoleOperator}
}

func (suite *HandlerTestSuite) expectTokens(user *domain.User) (time.Time, time.Time) {
	accessExp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	refreshExp := time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Second)
	suite.tokenService.On("GenerateAccessToken", mock.Anything, user).Return("access-token", accessExp, nil).Once()
	suite.tokenService.On("GenerateRefreshToken", mock.Anything, user).Return("refresh-raw", refreshExp, nil).Once()
	suite.userService.On("UpdateRefreshToken", mock.Anything, user.UserID, utils.HashRefreshToken("refresh-raw"), refreshExp).Return(nil).Once()
	return accessExp, refreshExp
}

func (suite *HandlerTestSuite) TestLogin_Success() {
	user := operatorUser()
	suite.userService.On("AuthenticateUser", mock.Anything, "cashier", "s3cret-pass").Return(user, nil).Once()
	accessExp, refreshExp := suite.expectTokens(user)

	w := suite.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "cashier", Password: "s3cret-pass"}, "", "")

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	suite.decode(w, &resp)
	suite.Equal("access-token", resp.Token)
	suite.Equal("refresh-raw", resp.RefreshToken)
	suite.True(accessExp.Equal(resp.ExpiresAt))
	suite.True(refreshExp.Equal(resp.RefreshTokenExpiresAt))
	suite.Equal(domain.RoleOperator, resp.User.Role)
}

func (suite *HandlerTestSuite) TestLogin_InvalidCredentials() {
	suite.userService.On("AuthenticateUser", mock.Anything, "cashier", "wrong").Return(nil, apperrors.ErrUnauthorized).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "cashier", Password: "wrong"}, "", "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Invalid username or password", suite.errorMessage(w))
	suite.tokenService.AssertNotCalled(suite.T(), "GenerateAccessToken", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestLogin_MissingPassword() {
	w := suite.do(http.MethodPost, "/api/v1/auth/login", `{"username":"cashier"}`, "", "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.userService.AssertNotCalled(suite.T(), "AuthenticateUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestRefresh_Expired() {
	suite.tokenService.On("ValidateAndParseRefreshToken", mock.Anything, operatorID, "old").Return(nil, apperrors.ErrRefreshTokenExpired).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/refresh", dto.RefreshTokenRequest{UserID: operatorID, RefreshToken: "old"}, "", "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apperrors.ErrRefreshTokenExpired.Error(), suite.errorMessage(w))
}

func (suite *HandlerTestSuite) TestRefresh_Success() {
	user := operatorUser()
	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	suite.tokenService.On("ValidateAndParseRefreshToken", mock.Anything, operatorID, "refresh-raw").Return(user, nil).Once()
	suite.tokenService.On("GenerateAccessToken", mock.Anything, user).Return("new-access", exp, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/refresh", dto.RefreshTokenRequest{UserID: operatorID, RefreshToken: "refresh-raw"}, "", "")

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.RefreshTokenResponse
	suite.decode(w, &resp)
	suite.Equal("new-access", resp.Token)
}

func (suite *HandlerTestSuite) TestLogout_ClearsRefreshToken() {
	suite.tokenService.On("ValidateAndParseRefreshToken", mock.Anything, operatorID, "refresh-raw").Return(operatorUser(), nil).Once()
	suite.userService.On("ClearRefreshToken", mock.Anything, operatorID).Return(nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/logout", dto.RefreshTokenRequest{UserID: operatorID, RefreshToken: "refresh-raw"}, "", "")

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *HandlerTestSuite) TestLogout_WrongToken() {
	suite.tokenService.On("ValidateAndParseRefreshToken", mock.Anything, operatorID, "forged").Return(nil, apperrors.ErrUnauthorized).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/logout", dto.RefreshTokenRequest{UserID: operatorID, RefreshToken: "forged"}, "", "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.userService.AssertNotCalled(suite.T(), "ClearRefreshToken", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGoogleLoginURL_SetsStateCookie() {
	suite.googleOAuthService.On("GenerateStateString", mock.Anything).Return("state-123", nil).Once()
	suite.googleOAuthService.On("GetGoogleLoginURL", mock.Anything, "state-123").Return("https://accounts.google.com/o/oauth2/auth?state=state-123").Once()

	w := suite.do(http.MethodGet, "/api/v1/auth/google/login-url", nil, "", "")

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.GoogleLoginURLResponse
	suite.decode(w, &resp)
	suite.Equal("state-123", resp.State)
	suite.Contains(resp.URL, "state=state-123")
	suite.Contains(w.Header().Get("Set-Cookie"), "oauth_state=state-123")
}

func (suite *HandlerTestSuite) exchangeCode(body dto.GoogleCodeExchangeRequest, cookieState string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/google/exchange-code",
		strings.NewReader(`{"code":"`+body.Code+`","state":"`+body.State+`"}`))
	req.Header.Set("Content-Type", "application/json")
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: cookieState})
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) TestGoogleExchangeCode_StateMismatch() {
	w := suite.exchangeCode(dto.GoogleCodeExchangeRequest{Code: "code", State: "forged"}, "state-123")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.googleOAuthService.AssertNotCalled(suite.T(), "ExchangeCodeForToken", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGoogleExchangeCode_Success() {
	user := operatorUser()
	token := (&oauth2.Token{AccessToken: "google-access"}).WithExtra(map[string]interface{}{"id_token": "google-id-token"})
	suite.googleOAuthService.On("ExchangeCodeForToken", mock.Anything, "code").Return(token, nil).Once()
	suite.googleOAuthService.On("ValidateGoogleIDToken", mock.Anything, "google-id-token").Return(&idtoken.Payload{
		Subject: "google-sub",
		Claims:  map[string]interface{}{"email": "cashier@example.com", "email_verified": true},
	}, nil).Once()
	suite.userService.On("GetUserByEmail", mock.Anything, "cashier@example.com").Return(user, nil).Once()
	suite.expectTokens(user)

	w := suite.exchangeCode(dto.GoogleCodeExchangeRequest{Code: "code", State: "state-123"}, "state-123")

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	suite.decode(w, &resp)
	suite.Equal("access-token", resp.Token)
	suite.Equal(operatorID, resp.User.UserID)
}

func (suite *HandlerTestSuite) TestGoogleExchangeCode_UnknownEmail() {
	token := (&oauth2.Token{AccessToken: "google-access"}).WithExtra(map[string]interface{}{"id_token": "google-id-token"})
	suite.googleOAuthService.On("ExchangeCodeForToken", mock.Anything, "code").Return(token, nil).Once()
	suite.googleOAuthService.On("ValidateGoogleIDToken", mock.Anything, "google-id-token").Return(&idtoken.Payload{
		Subject: "google-sub",
		Claims:  map[string]interface{}{"email": "stranger@example.com", "email_verified": true},
	}, nil).Once()
	suite.userService.On("GetUserByEmail", mock.Anything, "stranger@example.com").Return(nil, apperrors.NewNotFoundError("user not found")).Once()

	w := suite.exchangeCode(dto.GoogleCodeExchangeRequest{Code: "code", State: "state-123"}, "state-123")

	suite.Equal(http.StatusForbidden, w.Code)
	suite.tokenService.AssertNotCalled(suite.T(), "GenerateAccessToken", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGoogleExchangeCode_UnverifiedEmail() {
	token := (&oauth2.Token{AccessToken: "google-access"}).WithExtra(map[string]interface{}{"id_token": "google-id-token"})
	suite.googleOAuthService.On("ExchangeCodeForToken", mock.Anything, "code").Return(token, nil).Once()
	suite.googleOAuthService.On("ValidateGoogleIDToken", mock.Anything, "google-id-token").Return(&idtoken.Payload{
		Subject: "google-sub",
		Claims:  map[string]interface{}{"email": "cashier@example.com", "email_verified": false},
	}, nil).Once()

	w := suite.exchangeCode(dto.GoogleCodeExchangeRequest{Code: "code", State: "state-123"}, "state-123")

	suite.Equal(http.StatusUnauthorized, w.Code)
}
