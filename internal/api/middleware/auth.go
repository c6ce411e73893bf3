package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Zaid3480/Real-Estate/internal/api/response"
	"github.com/Zaid3480/Real-Estate/internal/auth"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/services"
)

const (
	// ContextKeyUser holds the authenticated *models.User in Gin context.
	ContextKeyUser = "currentUser"
)

// Authenticate validates the bearer token and loads the account it
// names. The full user document goes into the context so handlers see
// current role and active flags, not the ones frozen into the token.
func Authenticate(userService services.IUserService, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := auth.ValidateToken(parts[1], jwtSecret)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "Invalid token subject")
			return
		}

		user, err := userService.FindByID(c.Request.Context(), userID)
		if err != nil {
			if err == services.ErrUserNotFound {
				response.NotFound(c, "User not found")
				return
			}
			response.Internal(c, "")
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose account role is not
// in the allowed set. Assumes Authenticate ran first.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "Authentication required")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "Insufficient privileges")
	}
}

// CurrentUser returns the authenticated user set by Authenticate, or
// nil when the request is unauthenticated.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
