package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/lendhub/leaddesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingBody(at time.Time, duration int, kind string) string {
	body, _ := json.Marshal(models.BookAppointmentRequest{
		ScheduledAt:     at,
		DurationMinutes: duration,
		AppointmentType: kind,
		Notes:           "bring the comps",
	})
	return string(body)
}

func TestAppointmentHandler_Book(t *testing.T) {
	env := setupHandlers(t)
	env.seedLead(t, "lead-1", "Ann", "Lee", 10, 1)

	body := bookingBody(testNow.Add(61*time.Minute), 90, "Property Review")
	c, rec := newContext(http.MethodPost, "/api/v1/leads/lead-1/appointments", body, "id", "lead-1")
	require.NoError(t, env.appointment.Book(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var appt models.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	assert.Equal(t, "lead-1", appt.LeadID)
	assert.Equal(t, 90, appt.DurationMinutes)
	assert.Equal(t, models.AppointmentStatusScheduled, appt.Status)
	assert.Equal(t, "https://meet.example.com/lead-1-1748779200000", appt.MeetingLink)

	stored, err := env.apptStore.ListByLead(context.Background(), "lead-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, appt.ID, stored[0].ID)
}

func TestAppointmentHandler_Book_Rejected(t *testing.T) {
	env := setupHandlers(t)
	env.seedLead(t, "lead-1", "Ann", "Lee", 10, 1)

	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
		wantField  string
	}{
		{"too soon", "lead-1", bookingBody(testNow.Add(30*time.Minute), 60, "Property Review"), http.StatusBadRequest, "scheduled_at"},
		{"bad duration", "lead-1", bookingBody(testNow.Add(2*time.Hour), 45, "Property Review"), http.StatusBadRequest, "duration_minutes"},
		{"bad type", "lead-1", bookingBody(testNow.Add(2*time.Hour), 60, "Coffee"), http.StatusBadRequest, "appointment_type"},
		{"unknown lead", "missing", bookingBody(testNow.Add(2*time.Hour), 60, "Property Review"), http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodPost, "/api/v1/leads/"+tt.id+"/appointments", tt.body, "id", tt.id)
			require.NoError(t, env.appointment.Book(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantField != "" {
				var resp models.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Contains(t, resp.Fields, tt.wantField)
			}
		})
	}

	stored, err := env.apptStore.ListByLead(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}
