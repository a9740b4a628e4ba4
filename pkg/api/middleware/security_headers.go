package middleware

import (
	"github.com/labstack/echo/v4"
)

// SecurityHeadersConfig holds configuration for the security headers middleware.
// Empty fields fall back to the defaults.
type SecurityHeadersConfig struct {
	ContentSecurityPolicy string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// DefaultSecurityHeadersConfig suits a JSON API that never serves HTML
func DefaultSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'; base-uri 'none'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "camera=(), microphone=(), geolocation=(), payment=()",
	}
}

// SecurityHeaders sets Content-Security-Policy, Referrer-Policy and
// Permissions-Policy on every response.
func SecurityHeaders(config SecurityHeadersConfig) echo.MiddlewareFunc {
	defaults := DefaultSecurityHeadersConfig()

	if config.ContentSecurityPolicy == "" {
		config.ContentSecurityPolicy = defaults.ContentSecurityPolicy
	}
	if config.ReferrerPolicy == "" {
		config.ReferrerPolicy = defaults.ReferrerPolicy
	}
	if config.PermissionsPolicy == "" {
		config.PermissionsPolicy = defaults.PermissionsPolicy
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Content-Security-Policy", config.ContentSecurityPolicy)
			h.Set("Referrer-Policy", config.ReferrerPolicy)
			h.Set("Permissions-Policy", config.PermissionsPolicy)
			return next(c)
		}
	}
}
