// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/curtains-backend/internal/pkg/auth"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// OptionalAuthMiddleware identifies the caller from a bearer token issued by
// the identity provider. Missing or invalid tokens leave the request anonymous.
func OptionalAuthMiddleware(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifier.Enabled() {
			c.Next()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			c.Next()
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set(userEmailKey, claims.Email)

		c.Next()
	}
}

// GetUserIDFromContext returns the authenticated subject, if any
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID := c.GetString(userIDKey)
	return userID, userID != ""
}

// GetUserEmailFromContext returns the authenticated email, if any
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	email := c.GetString(userEmailKey)
	return email, email != ""
}
