package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/api/errors"
	"github.com/lendhub/leaddesk/pkg/appointments"
	"github.com/lendhub/leaddesk/pkg/metrics"
	"github.com/lendhub/leaddesk/pkg/models"
)

// AppointmentHandler books meetings with leads
type AppointmentHandler struct {
	service *appointments.Service
	metrics *metrics.Metrics
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service *appointments.Service, m *metrics.Metrics) *AppointmentHandler {
	return &AppointmentHandler{service: service, metrics: m}
}

// Book godoc
// @Summary Book an appointment with a lead
// @Tags Appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body models.BookAppointmentRequest true "Appointment"
// @Success 201 {object} models.Appointment
// @Failure 400 {object} models.ErrorResponse "Invalid time, duration or type"
// @Failure 404 {object} models.ErrorResponse
// @Router /leads/{id}/appointments [post]
func (h *AppointmentHandler) Book(c echo.Context) error {
	var req models.BookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	appt, err := h.service.Book(c.Request().Context(), appointments.Request{
		LeadID:          c.Param("id"),
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		AppointmentType: req.AppointmentType,
		Notes:           req.Notes,
	})
	if err != nil {
		return errors.HandleDomainError(c, err)
	}

	h.metrics.RecordAppointment()
	return c.JSON(http.StatusCreated, appt)
}
