package middleware

import (
	"context"

	"github.com/SscSPs/currency_exchange_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is a private type for request context keys. Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	userRoleKey  = contextKey("userRole")
)

// GetUserIDFromContext retrieves the authenticated user ID set by AuthMiddleware.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	return UserIDFromCtx(c.Request.Context())
}

// GetUserRoleFromContext retrieves the role of the authenticated user.
func GetUserRoleFromContext(c *gin.Context) (domain.UserRole, bool) {
	if v, exists := c.Get(string(userRoleKey)); exists {
		role, ok := v.(domain.UserRole)
		return role, ok
	}
	role, ok := c.Request.Context().Value(userRoleKey).(domain.UserRole)
	return role, ok
}

// UserIDFromCtx retrieves the authenticated user ID from a standard context.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
