package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"studio-scheduler/internal/domain/identity"
	"studio-scheduler/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokens *jwt.Service
	policy identity.Policy
}

const ctxActorKey = "actor"

func NewAuthMiddleware(tokens *jwt.Service, policy identity.Policy) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		policy: policy,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		role, err := identity.NewRole(claims.Role)
		if err != nil {
			slog.Warn("Token carries unknown role", "role", claims.Role)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxActorKey, identity.Actor{
			ID:          claims.ActorID,
			Role:        role,
			DisplayName: claims.DisplayName,
		})
		c.Next()
	}
}

// RequireAdmin rejects non-admin actors early with 403. The use cases run
// their own policy checks regardless; this only shapes the HTTP response.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			// Unexpected error: should be used after RequireAuth()
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		if !m.policy.IsAdmin(actor) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Administrator role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetActor(c *gin.Context) (identity.Actor, bool) {
	v, exists := c.Get(ctxActorKey)
	if !exists {
		return identity.Actor{}, false
	}

	actor, ok := v.(identity.Actor)
	return actor, ok
}
