package dto

import (
	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
)

// CreateUserRequest defines the data needed to create a desk user.
type CreateUserRequest struct {
	Username string          `json:"username" binding:"required,min=3,max=50"`
	Password string          `json:"password" binding:"required,min=8,max=72"`
	Name     string          `json:"name" binding:"required,max=100"`
	Email    *string         `json:"email" binding:"omitempty,email"`
	Role     domain.UserRole `json:"role" binding:"required,oneof=ADMIN OPERATOR"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name     *string          `json:"name" binding:"omitempty,max=100"`
	Email    *string          `json:"email" binding:"omitempty,email"`
	Password *string          `json:"password" binding:"omitempty,min=8,max=72"`
	Role     *domain.UserRole `json:"role" binding:"omitempty,oneof=ADMIN OPERATOR"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUserResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{
		Users: userResponses,
	}
}
