package middleware

import (
	"net/http"
	"strings"

	"clinicbook/utils"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID is the gin context key holding the authenticated
	// patient's user id.
	ContextUserID = "userID"
	// ContextToken holds the raw bearer token, forwarded as the credential
	// for every clinic backend call.
	ContextToken = "accessToken"
)

// JWTAuthMiddleware validates the caller's bearer token and stashes the
// user id plus the raw token on the context. Absence of a token
// short-circuits with a user-facing error before anything reaches the
// clinic backend.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required. Please log in.",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required. Please log in.",
			})
			return
		}

		userID, err := utils.ExtractUserIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired or invalid. Please log in again.",
			})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextToken, tokenString)
		c.Next()
	}
}

// UserID returns the authenticated user id from the context.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// Token returns the raw bearer token from the context.
func Token(c *gin.Context) string {
	return c.GetString(ContextToken)
}
