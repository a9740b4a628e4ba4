package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/api/errors"
	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/leads"
	"github.com/lendhub/leaddesk/pkg/metrics"
	"github.com/lendhub/leaddesk/pkg/models"
)

// LeadHandler handles the staff dashboard endpoints
type LeadHandler struct {
	leadService *leads.Service
	metrics     *metrics.Metrics
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *leads.Service, m *metrics.Metrics) *LeadHandler {
	return &LeadHandler{leadService: leadService, metrics: m}
}

// ViewQuery is the search, filters and refresh flag shared by the list and
// export endpoints
type ViewQuery struct {
	Search  string
	Filters leads.FilterSet
	Refresh bool
}

func bindViewQuery(c echo.Context) (ViewQuery, error) {
	var q ViewQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q.Filters); err != nil {
		return q, err
	}
	q.Search = c.QueryParam("search")
	if raw := c.QueryParam("refresh"); raw != "" {
		refresh, err := strconv.ParseBool(raw)
		if err != nil {
			return q, err
		}
		q.Refresh = refresh
	}
	return q, nil
}

// List godoc
// @Summary Ranked lead view
// @Description Leads matching the search and every active filter, highest score first.
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, email, phone or address substring"
// @Param program_type query string false "Program type"
// @Param process_stage query string false "Process stage"
// @Param lead_source query string false "Lead source"
// @Param status query string false "Status"
// @Param loan_term query integer false "Loan term in months"
// @Param state query string false "State"
// @Param priority query string false "Priority"
// @Param refresh query boolean false "Reload from the store first"
// @Success 200 {object} models.LeadListResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	q, err := bindViewQuery(c)
	if err != nil {
		return errors.ValidationError(c, err)
	}

	ranked, err := h.leadService.List(c.Request().Context(), q.Search, q.Filters, q.Refresh)
	if err != nil {
		return errors.HandleDomainError(c, err)
	}

	return c.JSON(http.StatusOK, models.LeadListResponse{Data: ranked, Total: len(ranked)})
}

// Get returns a single lead
func (h *LeadHandler) Get(c echo.Context) error {
	lead, err := h.leadService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.HandleDomainError(c, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// UpdateStatus godoc
// @Summary Change a lead's status
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body models.StatusUpdateRequest true "New status"
// @Success 200 {object} models.Lead
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Transition not allowed"
// @Router /leads/{id}/status [patch]
func (h *LeadHandler) UpdateStatus(c echo.Context) error {
	var req models.StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	lead, err := h.leadService.SetStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return errors.HandleDomainError(c, err)
	}

	h.metrics.RecordStatusChange(string(lead.Status))
	return c.JSON(http.StatusOK, lead)
}

// FollowUp sends the follow-up email to a lead
func (h *LeadHandler) FollowUp(c echo.Context) error {
	err := h.leadService.SendFollowUp(c.Request().Context(), c.Param("id"))
	h.metrics.RecordEmail("follow_up", err == nil)

	if err != nil {
		if domain.IsUnavailable(err) {
			return errors.UnavailableError(c, "email_failed", "Failed to send email", err)
		}
		return errors.HandleDomainError(c, err)
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Follow-up email sent successfully"})
}
