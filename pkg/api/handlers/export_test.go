package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportHandler_LeadsCSV(t *testing.T) {
	env := setupHandlers(t)
	env.seedLead(t, "a", "Ann", "Lee", 40, 3)
	env.seedLead(t, "b", "Bob", "Ray", 90, 2)

	c, rec := newContext(http.MethodGet, "/api/v1/leads/export", "")
	require.NoError(t, env.export.Leads(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, export.ContentTypeCSV, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="leads-export-2025-06-01.csv"`, rec.Header().Get(echo.HeaderContentDisposition))

	lines := strings.Split(rec.Body.String(), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], `"Name","Email","Phone",`))
	assert.Equal(t, `"Bob Ray","bob@example.com","+15125550100","Fix & Flip","Actively Looking","Google","New","90","Medium","","TX","","","","5/30/2025"`, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], `"Ann Lee",`))

	assert.Contains(t, env.archive.files, "leads-export-2025-06-01.csv")
}

func TestExportHandler_LeadsCSV_UsesFilters(t *testing.T) {
	env := setupHandlers(t)
	env.seedLead(t, "a", "Ann", "Lee", 40, 3)
	env.seedLead(t, "b", "Bob", "Ray", 90, 2)

	c, rec := newContext(http.MethodGet, "/api/v1/leads/export?search=ann", "")
	require.NoError(t, env.export.Leads(c))
	require.Equal(t, http.StatusOK, rec.Code)

	lines := strings.Split(rec.Body.String(), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], `"Ann Lee",`))
}

func TestExportHandler_LeadsXLSX(t *testing.T) {
	env := setupHandlers(t)
	env.seedLead(t, "a", "Ann", "Lee", 40, 3)

	c, rec := newContext(http.MethodGet, "/api/v1/leads/export?format=xlsx", "")
	require.NoError(t, env.export.Leads(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "leads-export-2025-06-01.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Leads")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "Ann Lee", rows[1][0])
}

func TestExportHandler_LeadsUnknownFormat(t *testing.T) {
	env := setupHandlers(t)

	c, rec := newContext(http.MethodGet, "/api/v1/leads/export?format=pdf", "")
	require.NoError(t, env.export.Leads(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.archive.files)
}

func TestExportHandler_Report(t *testing.T) {
	env := setupHandlers(t)
	env.seedLead(t, "a", "Ann", "Lee", 40, 3)
	env.seedLead(t, "b", "Bob", "Ray", 90, 2)
	env.seedLead(t, "c", "Cal", "Fox", 90, 1)

	for _, id := range []string{"b", "c"} {
		c, rec := newContext(http.MethodPatch, "/api/v1/leads/"+id+"/status", `{"status":"Closed"}`, "id", id)
		require.NoError(t, env.lead.UpdateStatus(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	c, rec := newContext(http.MethodGet, "/api/v1/analytics/report?days=7", "")
	require.NoError(t, env.export.Report(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="analytics-report-2025-06-01.json"`, rec.Header().Get(echo.HeaderContentDisposition))

	var report map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "6/1/2025, 12:00:00 PM", report["Report Generated"])
	assert.Equal(t, "Last 7 days", report["Date Range"])
	assert.EqualValues(t, 3, report["Total Leads"])
	assert.Equal(t, "66.67%", report["Conversion Rate"])

	// keys keep their documented order
	body := rec.Body.String()
	assert.Less(t, strings.Index(body, `"Report Generated"`), strings.Index(body, `"Date Range"`))
	assert.Less(t, strings.Index(body, `"Conversion Rate"`), strings.Index(body, `"Leads by Program Type"`))
	assert.Less(t, strings.Index(body, `"Leads by State"`), strings.Index(body, `"Leads by Status"`))
}

func TestExportHandler_Report_InvalidWindow(t *testing.T) {
	env := setupHandlers(t)

	c, rec := newContext(http.MethodGet, "/api/v1/analytics/report?days=3", "")
	require.NoError(t, env.export.Report(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
