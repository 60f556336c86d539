package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/currency_exchange_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains routes that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/api/v1/health": true,
}

// PosthogMiddleware tracks successful authenticated API calls, one event per route
// (e.g. "/api/v1/exchange" -> "api_v1_exchange").
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Nothing to do without a client, or for routes we never track
		if !posthogClient.IsInitialized() || pathsToSkip[c.FullPath()] {
			c.Next()
			return
		}

		// Let the handler run, the status decides whether we track
		c.Next()

		// Failed requests are not tracked
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// Events are attributed to the user the auth middleware resolved
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// Route template to event name; params like ":currencyID" lose their colon
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		eventName = strings.NewReplacer(":", "", "*", "").Replace(eventName)

		// Unmatched routes have no template
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		// Operators and admins use different parts of the API
		if role, ok := GetUserRoleFromContext(c); ok {
			props["role"] = string(role)
		}

		posthogClient.Enqueue(userID, eventName, props)
	}
}

// PosthogEvent sends a custom event for the authenticated user, e.g. a recorded exchange.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}

	// Get user ID from context
	userID, exists := GetUserIDFromContext(c)
	if !exists {
		return
	}

	// Callers may pass nil when the event name says it all
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["method"] = c.Request.Method

	posthogClient.Enqueue(userID, eventName, properties)
}
