package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sevasetu/internal/auth"
	"sevasetu/internal/models"
	"sevasetu/internal/services"
)

const (
	ctxUserID   = "user_id"
	ctxRole     = "role"
	ctxIdentity = "identity"
)

func abort(c *gin.Context, status int, kind services.Kind, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": kind})
}

// RequireAuth ensures a valid bearer token is present and stores the caller's
// identity in the context for downstream handlers.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, services.KindMissingToken, "Token is missing")
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
			abort(c, http.StatusUnauthorized, services.KindInvalidToken, "Token is invalid")
			return
		}

		id, err := tokens.Validate(strings.TrimSpace(tokenString))
		if err != nil {
			abort(c, http.StatusUnauthorized, services.KindInvalidToken, "Token is invalid")
			return
		}

		c.Set(ctxUserID, id.UserID)
		c.Set(ctxRole, id.Role)
		c.Set(ctxIdentity, *id)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not one of roles. It must run
// after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := Identity(c)
		if !ok {
			abort(c, http.StatusUnauthorized, services.KindMissingToken, "Token is missing")
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, services.KindForbidden, "Insufficient permissions")
	}
}

// Identity returns the caller resolved by RequireAuth.
func Identity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}
