package handlers_test

import (
	"net/http"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/SscSPs/currency_exchange_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestGetCurrentUser() {
	suite.userService.On("GetUserByID", mock.Anything, operatorID).Return(operatorUser(), nil).Once()

	w := suite.asOperator(http.MethodGet, "/api/v1/users/me", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.UserResponse
	suite.decode(w, &resp)
	suite.Equal("cashier", resp.Username)
}

func (suite *HandlerTestSuite) TestGetUser_OperatorCannotReadOthers() {
	w := suite.asOperator(http.MethodGet, "/api/v1/users/"+adminID, nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.userService.AssertNotCalled(suite.T(), "GetUserByID", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetUser_AdminReadsAnyone() {
	suite.userService.On("GetUserByID", mock.Anything, operatorID).Return(operatorUser(), nil).Once()

	w := suite.asAdmin(http.MethodGet, "/api/v1/users/"+operatorID, nil)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestListUsers() {
	suite.Run("operator forbidden", func() {
		w := suite.asOperator(http.MethodGet, "/api/v1/users", nil)
		suite.Equal(http.StatusForbidden, w.Code)
	})
	suite.Run("admin", func() {
		suite.userService.On("ListUsers", mock.Anything, 20, 0).Return([]domain.User{*operatorUser()}, nil).Once()
		w := suite.asAdmin(http.MethodGet, "/api/v1/users", nil)

		suite.Require().Equal(http.StatusOK, w.Code)
		var resp dto.ListUsersResponse
		suite.decode(w, &resp)
		suite.Len(resp.Users, 1)
	})
}

func (suite *HandlerTestSuite) TestCreateUser() {
	suite.Run("invalid role", func() {
		w := suite.asAdmin(http.MethodPost, "/api/v1/users",
			`{"username":"cashier","password":"long-enough","name":"Cashier","role":"MANAGER"}`)
		suite.Equal(http.StatusBadRequest, w.Code)
	})
	suite.Run("duplicate", func() {
		suite.userService.On("CreateUser", mock.Anything, mock.MatchedBy(func(req dto.CreateUserRequest) bool {
			return req.Username == "cashier" && req.Role == domain.RoleOperator
		}), adminID).Return(nil, apperrors.ErrDuplicate).Once()

		w := suite.asAdmin(http.MethodPost, "/api/v1/users",
			`{"username":"cashier","password":"long-enough","name":"Cashier","role":"OPERATOR"}`)

		suite.Equal(http.StatusConflict, w.Code)
		suite.Equal(apperrors.ErrDuplicate.Error(), suite.errorMessage(w))
	})
}

func (suite *HandlerTestSuite) TestUpdateUser_Self() {
	name := "Head Cashier"
	updated := operatorUser()
	updated.Name = name
	suite.userService.On("UpdateUser", mock.Anything, operatorID, mock.MatchedBy(func(req dto.UpdateUserRequest) bool {
		return req.Name != nil && *req.Name == name && req.Role == nil
	}), operatorID).Return(updated, nil).Once()

	w := suite.asOperator(http.MethodPut, "/api/v1/users/"+operatorID, `{"name":"Head Cashier"}`)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.UserResponse
	suite.decode(w, &resp)
	suite.Equal(name, resp.Name)
}

func (suite *HandlerTestSuite) TestDeleteUser_Self() {
	suite.userService.On("DeleteUser", mock.Anything, adminID, adminID).
		Return(apperrors.NewValidationError("users cannot delete themselves")).Once()

	w := suite.asAdmin(http.MethodDelete, "/api/v1/users/"+adminID, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}
