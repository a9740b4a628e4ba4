package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/api/errors"
	"github.com/lendhub/leaddesk/pkg/api/middleware"
	"github.com/lendhub/leaddesk/pkg/auth"
	"github.com/lendhub/leaddesk/pkg/models"
)

// AuthHandler exposes the caller's identity and token revocation. Tokens
// are issued by the identity provider, not by this service.
type AuthHandler struct {
	blacklist *auth.TokenBlacklist
}

// NewAuthHandler creates an auth handler. blacklist may be nil when Redis
// is unavailable, in which case logout is refused.
func NewAuthHandler(blacklist *auth.TokenBlacklist) *AuthHandler {
	return &AuthHandler{blacklist: blacklist}
}

// Me returns the resolved identity
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return errors.UnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, id)
}

// Logout revokes the presented token until it expires
func (h *AuthHandler) Logout(c echo.Context) error {
	if h.blacklist == nil {
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "logout_unavailable",
			Message: "Token revocation requires Redis",
		})
	}

	token, _ := c.Get(middleware.ContextKeyToken).(string)
	exp, _ := c.Get(middleware.ContextKeyTokenExp).(time.Time)
	if token == "" {
		return errors.UnauthorizedError(c)
	}

	if err := h.blacklist.Add(c.Request().Context(), token, time.Until(exp)); err != nil {
		return errors.InternalError(c, err)
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Logged out successfully"})
}
