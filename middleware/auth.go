package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	userRepo "lexbook/database/repository/user"
	"lexbook/utils"
)

// JWTAuthMiddleware validates a bearer token and resolves the subject to an
// existing account. On success the client's user ID is stored in the gin
// context under "clientID".
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "insufficient authorization"})
			return
		}

		userID, err := utils.ExtractSubjectFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "insufficient authorization"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if _, err := users.GetByID(ctx, userID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "insufficient authorization"})
			return
		}

		c.Set("clientID", userID)
		c.Next()
	}
}

// ClientID returns the authenticated user ID stashed by JWTAuthMiddleware.
func ClientID(c *gin.Context) string {
	if v, ok := c.Get("clientID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
