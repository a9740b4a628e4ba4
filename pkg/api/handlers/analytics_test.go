package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/lendhub/leaddesk/pkg/analytics"
	"github.com/lendhub/leaddesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsHandler_Summary(t *testing.T) {
	env := setupHandlers(t)
	env.seedLead(t, "a", "Ann", "Lee", 10, 1)
	env.seedLead(t, "b", "Bob", "Ray", 10, 5)
	env.seedLead(t, "old", "Old", "Timer", 10, 45)

	c, rec := newContext(http.MethodPatch, "/api/v1/leads/b/status", `{"status":"Closed"}`, "id", "b")
	require.NoError(t, env.lead.UpdateStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		name      string
		target    string
		wantTotal int
		wantRate  float64
	}{
		{"default window", "/api/v1/analytics", 2, 50},
		{"seven days", "/api/v1/analytics?days=7", 2, 50},
		{"ninety days", "/api/v1/analytics?days=90", 3, 100.0 / 3},
		{"filtered", "/api/v1/analytics?days=90&status=Closed", 1, 100},
		{"no match", "/api/v1/analytics?program_type=Commercial%20(All)", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, tt.target, "")
			require.NoError(t, env.analytics.Summary(c))
			require.Equal(t, http.StatusOK, rec.Code)

			var summary analytics.Summary
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
			assert.Equal(t, tt.wantTotal, summary.TotalLeads)
			assert.InDelta(t, tt.wantRate, summary.ConversionRate, 0.001)
		})
	}
}

func TestAnalyticsHandler_Summary_InvalidWindow(t *testing.T) {
	env := setupHandlers(t)

	for _, target := range []string{"/api/v1/analytics?days=14", "/api/v1/analytics?days=week"} {
		c, rec := newContext(http.MethodGet, target, "")
		require.NoError(t, env.analytics.Summary(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestAnalyticsHandler_Summary_StatusCounts(t *testing.T) {
	env := setupHandlers(t)
	env.seedLead(t, "a", "Ann", "Lee", 10, 1)

	c, rec := newContext(http.MethodGet, "/api/v1/analytics", "")
	require.NoError(t, env.analytics.Summary(c))

	var summary analytics.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, map[string]int{string(models.StatusNew): 1}, summary.ByStatus)
	assert.Equal(t, map[string]int{"TX": 1}, summary.ByState)
	require.Len(t, summary.LeadsOverTime, 1)

	// the stored lead is unchanged by reads
	stored, err := env.leadStore.GetByID(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, stored.Status)
}
