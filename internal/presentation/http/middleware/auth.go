package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pdv-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pdv-api/pkg/utils"
)

// AuthMiddleware requires a valid session token
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateSessionToken(token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		setSession(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the current staff member when a valid
// token is sent and lets anonymous requests through
func OptionalAuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}
		if claims, err := jwtManager.ValidateSessionToken(token); err == nil {
			setSession(c, claims)
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setSession(c *gin.Context, claims *utils.SessionClaims) {
	c.Set("user_id", claims.UserID())
	c.Set("user_name", claims.Name)
	c.Set("user_role", claims.Role)
}
