package errors

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/models"
)

// ValidationError returns a 400. Domain validation messages and field
// errors are user-facing; anything else is replaced by a generic message.
func ValidationError(c echo.Context, err error) error {
	log.Printf("[VALIDATION ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	resp := models.ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request data. Please check your input and try again.",
	}
	if domain.IsValidation(err) {
		resp.Message = domain.GetErrorMessage(err)
		resp.Fields = domain.FieldErrors(err)
	}
	return c.JSON(http.StatusBadRequest, resp)
}

// DatabaseError returns a generic database error without exposing internal details
func DatabaseError(c echo.Context, err error) error {
	log.Printf("[DATABASE ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "database_error",
		Message: "A database error occurred. Please try again later.",
	})
}

// InternalError returns a generic internal server error
func InternalError(c echo.Context, err error) error {
	log.Printf("[INTERNAL ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred. Please try again later.",
	})
}

// UnauthorizedError returns a generic unauthorized error
func UnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "unauthorized",
		Message: "You are not authorized to access this resource.",
	})
}

// ForbiddenError returns the access denied response of admin-only routes
func ForbiddenError(c echo.Context) error {
	return c.JSON(http.StatusForbidden, models.ErrorResponse{
		Error:   "access_denied",
		Message: "Access denied. Admin privileges required.",
	})
}

// NotFoundError returns a not found error. An empty message falls back to
// a generic one.
func NotFoundError(c echo.Context, message string) error {
	if message == "" {
		message = "The requested resource was not found."
	}
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: message,
	})
}

// ConflictError returns a conflict error
func ConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, models.ErrorResponse{
		Error:   "conflict",
		Message: message,
	})
}

// BadRequestError returns a 400 for malformed requests
func BadRequestError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// UnavailableError reports a failed downstream call such as email delivery
func UnavailableError(c echo.Context, code, message string, err error) error {
	log.Printf("[UPSTREAM ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)

	return c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// HandleDomainError maps a service error onto the response taxonomy.
// Unclassified errors are treated as store failures.
func HandleDomainError(c echo.Context, err error) error {
	switch domain.GetErrorCode(err) {
	case domain.ErrCodeValidation:
		return ValidationError(c, err)
	case domain.ErrCodeNotFound:
		return NotFoundError(c, domain.GetErrorMessage(err))
	case domain.ErrCodeConflict:
		return ConflictError(c, domain.GetErrorMessage(err))
	case domain.ErrCodeBadRequest:
		return BadRequestError(c, domain.GetErrorMessage(err))
	case domain.ErrCodeUnauthorized:
		return UnauthorizedError(c)
	case domain.ErrCodeForbidden:
		return ForbiddenError(c)
	case domain.ErrCodeUnavailable:
		return UnavailableError(c, "upstream_error", domain.GetErrorMessage(err), err)
	default:
		return DatabaseError(c, err)
	}
}
