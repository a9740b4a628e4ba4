package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/analytics"
	"github.com/lendhub/leaddesk/pkg/api/errors"
	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/export"
	"github.com/lendhub/leaddesk/pkg/leads"
	"github.com/lendhub/leaddesk/pkg/logger"
	"github.com/lendhub/leaddesk/pkg/metrics"
)

// ExportHandler serves file downloads of the ranked view and the analytics
// report
type ExportHandler struct {
	leadService      *leads.Service
	analyticsService *analytics.Service
	archive          domain.ArchiveStore
	loc              *time.Location
	metrics          *metrics.Metrics
	log              logger.Logger
	now              func() time.Time
}

// NewExportHandler creates a new export handler. archive may be nil.
func NewExportHandler(leadService *leads.Service, analyticsService *analytics.Service, archive domain.ArchiveStore, loc *time.Location, m *metrics.Metrics, log logger.Logger) *ExportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportHandler{
		leadService:      leadService,
		analyticsService: analyticsService,
		archive:          archive,
		loc:              loc,
		metrics:          m,
		log:              log.With("component", "export"),
		now:              time.Now,
	}
}

// Leads godoc
// @Summary Download the ranked lead view
// @Description Same search and filters as GET /leads. format is csv (default) or xlsx.
// @Tags Export
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "csv or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Router /leads/export [get]
func (h *ExportHandler) Leads(c echo.Context) error {
	q, err := bindViewQuery(c)
	if err != nil {
		return errors.ValidationError(c, err)
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		return errors.ValidationError(c, domain.NewFieldValidationError(map[string]string{
			"format": "must be csv or xlsx",
		}))
	}

	ranked, err := h.leadService.List(c.Request().Context(), q.Search, q.Filters, q.Refresh)
	if err != nil {
		return errors.HandleDomainError(c, err)
	}

	now := h.now().In(h.loc)
	var (
		name        string
		contentType string
		data        []byte
	)
	switch format {
	case "xlsx":
		data, err = export.XLSX(ranked, h.loc)
		if err != nil {
			return errors.InternalError(c, err)
		}
		name, contentType = export.XLSXFilename(now), export.ContentTypeXLSX
	default:
		data = []byte(export.CSV(ranked, h.loc))
		name, contentType = export.CSVFilename(now), export.ContentTypeCSV
	}

	h.metrics.RecordExportCreated(format)
	h.store(c.Request().Context(), name, contentType, data)
	return attachment(c, name, contentType, data)
}

// Report godoc
// @Summary Download the analytics report
// @Tags Export
// @Produce json
// @Security BearerAuth
// @Param days query integer false "Window in days (7, 30, 60, 90, 365)" default(30)
// @Success 200 {object} export.Report
// @Router /analytics/report [get]
func (h *ExportHandler) Report(c echo.Context) error {
	q, err := bindAnalyticsQuery(c)
	if err != nil {
		return errors.ValidationError(c, err)
	}
	if q.WindowDays, err = analytics.NormalizeWindow(q.WindowDays); err != nil {
		return errors.ValidationError(c, err)
	}

	summary, err := h.analyticsService.Summary(c.Request().Context(), q)
	if err != nil {
		return errors.HandleDomainError(c, err)
	}

	now := h.now().In(h.loc)
	data, err := export.NewReport(*summary, q.WindowDays, now).JSON()
	if err != nil {
		return errors.InternalError(c, err)
	}

	name := export.ReportFilename(now)
	h.metrics.RecordExportCreated("json")
	h.store(c.Request().Context(), name, export.ContentTypeJSON, data)
	return attachment(c, name, export.ContentTypeJSON, data)
}

// archiving is best effort; the download never waits on a failed upload
func (h *ExportHandler) store(ctx context.Context, name, contentType string, data []byte) {
	if h.archive == nil {
		return
	}
	location, err := h.archive.Save(ctx, name, contentType, data)
	if err != nil {
		h.log.Warn("failed to archive export", "file", name, "error", err)
		return
	}
	h.log.Info("export archived", "file", name, "location", location)
}

func attachment(c echo.Context, name, contentType string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, contentType, data)
}
