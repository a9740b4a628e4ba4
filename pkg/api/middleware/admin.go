package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/models"
)

// RequireAdmin ensures the authenticated caller carries the admin flag.
// Apply it after JWTMiddleware.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Error:   "unauthorized",
					Message: "Authentication required",
				})
			}

			if !id.IsAdmin {
				return c.JSON(http.StatusForbidden, models.ErrorResponse{
					Error:   "access_denied",
					Message: "Access denied. Admin privileges required.",
				})
			}

			return next(c)
		}
	}
}
