package models

import "time"

// AppointmentStatusScheduled is the only status this service writes
const AppointmentStatusScheduled = "Scheduled"

// AppointmentTypes lists the bookable meeting kinds
var AppointmentTypes = []string{
	"Initial Consultation",
	"Property Review",
	"Loan Structure Discussion",
	"Document Review",
	"Final Closing Meeting",
}

// AppointmentDurations lists the allowed meeting lengths in minutes
var AppointmentDurations = []int{30, 60, 90}

// DefaultAppointmentDuration is used when a request omits the duration
const DefaultAppointmentDuration = 60

// Appointment is a booked meeting with a lead. Written once, never updated.
type Appointment struct {
	ID              string    `db:"id" json:"id"`
	LeadID          string    `db:"lead_id" json:"lead_id"`
	ScheduledAt     time.Time `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	AppointmentType string    `db:"appointment_type" json:"appointment_type"`
	Notes           string    `db:"notes" json:"notes,omitempty"`
	MeetingLink     string    `db:"meeting_link" json:"meeting_link"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// BookAppointmentRequest is the body of POST /leads/:id/appointments
type BookAppointmentRequest struct {
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	AppointmentType string    `json:"appointment_type" validate:"required"`
	Notes           string    `json:"notes"`
}
