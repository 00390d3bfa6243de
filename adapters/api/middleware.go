package api

import (
	"net/http"
	"strings"

	"datalens/domain/core"
	"datalens/internal"
	"datalens/ports"

	"github.com/gin-gonic/gin"
)

const contextUserIDKey = "userID"

// RequireAuth validates the bearer token on the request and stores the
// session's user ID in the gin context for downstream handlers.
func RequireAuth(sessions ports.SessionRepository, logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or malformed Authorization header"})
			return
		}

		session, err := sessions.GetByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
			return
		}

		if session.IsExpired() {
			logger.Debug("[Auth] Expired session for user %s", session.UserID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}

		c.Set(contextUserIDKey, session.UserID)
		c.Next()
	}
}

// CurrentUserID reads the authenticated user ID set by RequireAuth.
func CurrentUserID(c *gin.Context) (core.UserID, bool) {
	v, ok := c.Get(contextUserIDKey)
	if !ok {
		return "", false
	}
	userID, ok := v.(core.UserID)
	return userID, ok
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
