package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/analytics"
	"github.com/lendhub/leaddesk/pkg/api/errors"
	"github.com/lendhub/leaddesk/pkg/leads"
)

// AnalyticsHandler serves the aggregated pipeline view
type AnalyticsHandler struct {
	service *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func bindAnalyticsQuery(c echo.Context) (analytics.Query, error) {
	q := analytics.Query{}
	if raw := c.QueryParam("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return q, err
		}
		q.WindowDays = days
	}

	var filters leads.FilterSet
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &filters); err != nil {
		return q, err
	}
	q.Filters = filters
	return q, nil
}

// Summary godoc
// @Summary Lead analytics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param days query integer false "Window in days (7, 30, 60, 90, 365)" default(30)
// @Success 200 {object} analytics.Summary
// @Failure 400 {object} models.ErrorResponse
// @Router /analytics [get]
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	q, err := bindAnalyticsQuery(c)
	if err != nil {
		return errors.ValidationError(c, err)
	}

	summary, err := h.service.Summary(c.Request().Context(), q)
	if err != nil {
		return errors.HandleDomainError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}
