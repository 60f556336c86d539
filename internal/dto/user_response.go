package dto

import "github.com/SscSPs/currency_exchange_app/internal/core/domain"

type UserResponse struct {
	UserID   string          `json:"userID"`
	Username string          `json:"username"`
	Name     string          `json:"name"`
	Email    *string         `json:"email,omitempty"`
	Role     domain.UserRole `json:"role"`
}

func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
	}
}
