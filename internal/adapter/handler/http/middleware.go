package http

import (
	"net/http"
	"strings"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/services"

	"github.com/gin-gonic/gin"
)

const authPayloadKey = "authorization_payload"

// AuthMiddleware verifies the bearer token and resolves the local user row
// from the provider identity, creating it on first sight.
func AuthMiddleware(tokenService ports.TokenService, userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			newErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			newErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		payload, err := tokenService.VerifyToken(token)
		if err != nil {
			newErrorResponse(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := userService.EnsureUser(c.Request.Context(), payload)
		if err != nil {
			newErrorResponse(c, http.StatusUnauthorized, "Failed to resolve user")
			return
		}

		c.Set(authPayloadKey, user)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the user when a valid token is present and
// lets the request through anonymously otherwise. Listing endpoints use it to
// annotate wishlist state for signed-in visitors.
func OptionalAuthMiddleware(tokenService ports.TokenService, userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || token == authHeader {
			c.Next()
			return
		}

		payload, err := tokenService.VerifyToken(token)
		if err != nil {
			c.Next()
			return
		}
		if user, err := userService.EnsureUser(c.Request.Context(), payload); err == nil {
			c.Set(authPayloadKey, user)
		}
		c.Next()
	}
}

// AdminMiddleware runs after AuthMiddleware and rejects non-admin users.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := getAuthPayload(c, authPayloadKey)
		if !exists {
			newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !user.IsAdmin() {
			newErrorResponse(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func getAuthPayload(c *gin.Context, key string) (*domain.User, bool) {
	value, exists := c.Get(key)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	if !ok {
		return nil, false
	}
	return user, true
}
