package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lendhub/leaddesk/pkg/database"
	"github.com/lendhub/leaddesk/pkg/models"
)

const appointmentsInsert = `INSERT INTO appointments
	(id, lead_id, scheduled_at, duration_minutes, appointment_type, notes, meeting_link, status, created_at)
	VALUES
	(:id, :lead_id, :scheduled_at, :duration_minutes, :appointment_type, :notes, :meeting_link, :status, :created_at)`

// AppointmentStore persists booked appointments
type AppointmentStore struct {
	db *sqlx.DB
}

// NewAppointmentStore creates an appointment store on an open client
func NewAppointmentStore(client *database.Client) *AppointmentStore {
	return &AppointmentStore{db: client.DB}
}

// Insert stores a booked appointment
func (s *AppointmentStore) Insert(ctx context.Context, appt *models.Appointment) error {
	appt.ScheduledAt = appt.ScheduledAt.UTC()
	appt.CreatedAt = appt.CreatedAt.UTC()
	if _, err := s.db.NamedExecContext(ctx, appointmentsInsert, appt); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// ListByLead returns a lead's appointments, soonest first
func (s *AppointmentStore) ListByLead(ctx context.Context, leadID string) ([]models.Appointment, error) {
	appts := []models.Appointment{}
	query := s.db.Rebind(`SELECT id, lead_id, scheduled_at, duration_minutes, appointment_type,
		notes, meeting_link, status, created_at
		FROM appointments WHERE lead_id = ? ORDER BY scheduled_at`)
	if err := s.db.SelectContext(ctx, &appts, query, leadID); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}
