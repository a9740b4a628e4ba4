package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/auth"
	"github.com/lendhub/leaddesk/pkg/models"
)

// Context keys set by JWTMiddleware
const (
	ContextKeyIdentity = "identity"
	ContextKeyToken    = "token"
	ContextKeyTokenExp = "token_expires_at"
)

// JWTMiddleware creates a JWT authentication middleware
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	return JWTMiddlewareWithBlacklist(secret, nil)
}

// JWTMiddlewareWithBlacklist authenticates Bearer tokens and places the
// caller's auth.Identity in the echo context and the request context.
func JWTMiddlewareWithBlacklist(secret string, blacklist *auth.TokenBlacklist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "missing_token",
					Message: "Authorization header is required",
				})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "invalid_token_format",
					Message: "Authorization header must be 'Bearer {token}'",
				})
			}
			token := parts[1]

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			claims, err := auth.ValidateJWTWithBlacklist(ctx, token, secret, blacklist)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "invalid_token",
					Message: err.Error(),
				})
			}

			id := auth.IdentityFromClaims(claims)

			// Store token in context for logout
			c.Set(ContextKeyToken, token)
			if claims.ExpiresAt != nil {
				c.Set(ContextKeyTokenExp, claims.ExpiresAt.Time)
			}
			c.Set(ContextKeyIdentity, id)
			c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))

			return next(c)
		}
	}
}

// IdentityFrom returns the identity resolved by JWTMiddleware
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	id, ok := c.Get(ContextKeyIdentity).(auth.Identity)
	return id, ok
}
