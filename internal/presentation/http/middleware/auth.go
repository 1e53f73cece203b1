package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/application/service"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/response"
	"github.com/sangkips/oscr-register/pkg/utils"
)

// Context keys set by AuthMiddleware
const (
	UserIDKey   = "user_id"
	UserNameKey = "user_name"
	UserRoleKey = "user_role"
)

// AuthMiddleware creates a JWT authentication middleware. The operator ID is
// also put on the request context so services can resolve the cashier.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserNameKey, claims.Name)
		c.Set(UserRoleKey, claims.Role)
		c.Request = c.Request.WithContext(service.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

// RequireRole creates a middleware that lets only the given roles through
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(UserRoleKey)
		for _, required := range roles {
			if role == required {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}

// CurrentUserID returns the authenticated operator, or uuid.Nil
func CurrentUserID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}
