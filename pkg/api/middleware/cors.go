package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4/middleware"
)

// CORSConfig returns the CORS configuration for the given origins.
// Shared by main.go and tests.
func CORSConfig(origins []string) middleware.CORSConfig {
	return middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodOptions,
		},
		AllowCredentials: true,
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
		},
		ExposeHeaders: []string{"Content-Disposition"},
	}
}
