package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/api/errors"
	"github.com/lendhub/leaddesk/pkg/leads"
	"github.com/lendhub/leaddesk/pkg/metrics"
	"github.com/lendhub/leaddesk/pkg/models"
)

// ApplicationResponse is returned to the public intake form
type ApplicationResponse struct {
	ID        string            `json:"id"`
	Status    models.LeadStatus `json:"status"`
	EmailSent bool              `json:"email_sent"`
	Message   string            `json:"message"`
}

// ApplicationHandler handles the public intake form
type ApplicationHandler struct {
	leadService *leads.Service
	metrics     *metrics.Metrics
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(leadService *leads.Service, m *metrics.Metrics) *ApplicationHandler {
	return &ApplicationHandler{leadService: leadService, metrics: m}
}

// Submit godoc
// @Summary Submit a loan application
// @Tags Applications
// @Accept json
// @Produce json
// @Param request body leads.ApplicationRequest true "Application"
// @Success 201 {object} ApplicationResponse
// @Failure 400 {object} models.ErrorResponse "Validation error"
// @Failure 429 {object} models.ErrorResponse "Rate limited"
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c echo.Context) error {
	var req leads.ApplicationRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	result, err := h.leadService.Submit(c.Request().Context(), req)
	if err != nil {
		return errors.HandleDomainError(c, err)
	}

	h.metrics.RecordApplication()
	h.metrics.RecordEmail("welcome", result.EmailSent)

	return c.JSON(http.StatusCreated, ApplicationResponse{
		ID:        result.Lead.ID,
		Status:    result.Lead.Status,
		EmailSent: result.EmailSent,
		Message:   "Application submitted successfully",
	})
}
