package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/api/errors"
	"github.com/lendhub/leaddesk/pkg/crm"
	"github.com/lendhub/leaddesk/pkg/metrics"
)

// CRMHandler pushes leads to the external CRM
type CRMHandler struct {
	service *crm.Service
	metrics *metrics.Metrics
}

// NewCRMHandler creates a new CRM handler
func NewCRMHandler(service *crm.Service, m *metrics.Metrics) *CRMHandler {
	return &CRMHandler{service: service, metrics: m}
}

// Sync pushes one lead. A rejected sync is still a 200 whose body reports
// success false.
func (h *CRMHandler) Sync(c echo.Context) error {
	resp, err := h.service.Sync(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.HandleDomainError(c, err)
	}

	h.metrics.RecordCRMSync(resp.Success)
	return c.JSON(http.StatusOK, resp)
}
