package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/telemetry"
)

const (
	userIDKey   = "userId"
	userRoleKey = "userRole"
	claimsKey   = "authClaims"
)

// Authenticator resolves a bearer token into claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Claims, error)
}

// Auth verifies a bearer token when one is presented and stores the identity
// in context. Requests without a token pass through anonymously; RequireRole
// decides whether a route needs one.
func Auth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" || authn == nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) {
				telemetry.Warn("auth.session_check_failed", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      err.Error(),
				})
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, claims.Sub)
		c.Set(userRoleKey, claims.Role)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects anonymous requests with 401 and other roles with 403.
// With no roles listed any authenticated caller is accepted.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
			return
		}
		if len(roles) == 0 {
			c.Next()
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		respond.Error(c, http.StatusForbidden, "forbidden", "role "+claims.Role+" may not perform this action", nil)
	}
}

// ClaimsFromContext returns the verified token claims, if any.
func ClaimsFromContext(c *gin.Context) (auth.Claims, bool) {
	if c == nil {
		return auth.Claims{}, false
	}
	val, ok := c.Get(claimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := val.(auth.Claims)
	return claims, ok
}

// UserIDFromContext fetches the account ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserRoleFromContext fetches the account role set by the auth middleware.
func UserRoleFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userRoleKey)
	if role, ok := val.(string); ok {
		return role
	}
	return ""
}

// ActorFromContext returns the caller identity; anonymous when no token was
// presented.
func ActorFromContext(c *gin.Context) auth.Actor {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return auth.Actor{}
	}
	return auth.ActorFromClaims(claims)
}

// Policy decides whether guarded routes demand a session.
type Policy struct {
	RequireAuth bool
}

// Require returns RequireRole(roles...) when sessions are mandatory and a
// pass-through otherwise.
func (p Policy) Require(roles ...string) gin.HandlerFunc {
	if !p.RequireAuth {
		return func(c *gin.Context) { c.Next() }
	}
	return RequireRole(roles...)
}
