package appointments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/logger"
	"github.com/lendhub/leaddesk/pkg/models"
)

// MinLeadTime is how far ahead of now a meeting must start
const MinLeadTime = time.Hour

// Request describes a booking
type Request struct {
	LeadID          string
	ScheduledAt     time.Time
	DurationMinutes int
	AppointmentType string
	Notes           string
}

// Service books appointments with leads
type Service struct {
	leads       domain.LeadRepository
	appts       domain.AppointmentRepository
	alerter     domain.StaffAlerter
	meetingBase string
	log         logger.Logger
	now         func() time.Time
}

// NewService creates a booking service. alerter may be nil.
func NewService(leads domain.LeadRepository, appts domain.AppointmentRepository, alerter domain.StaffAlerter, meetingBase string, log logger.Logger) *Service {
	return &Service{
		leads:       leads,
		appts:       appts,
		alerter:     alerter,
		meetingBase: strings.TrimRight(meetingBase, "/"),
		log:         log.With("component", "appointments"),
		now:         time.Now,
	}
}

// SetClock replaces time.Now, for tests
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Validate checks a request against the server clock. It collects every
// invalid field.
func Validate(req Request, now time.Time) error {
	fields := map[string]string{}

	if req.ScheduledAt.IsZero() {
		fields["scheduled_at"] = "is required"
	} else if req.ScheduledAt.Before(now.Add(MinLeadTime)) {
		fields["scheduled_at"] = "must be at least 1 hour from now"
	}

	if !contains(models.AppointmentDurations, req.DurationMinutes) {
		fields["duration_minutes"] = "must be 30, 60 or 90"
	}

	if !contains(models.AppointmentTypes, req.AppointmentType) {
		fields["appointment_type"] = "is not a recognised appointment type"
	}

	if len(fields) > 0 {
		return domain.NewFieldValidationError(fields)
	}
	return nil
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// MeetingLink derives a meeting URL from the lead id and the booking time.
// Two bookings for one lead in the same millisecond would collide.
func MeetingLink(base, leadID string, at time.Time) string {
	return fmt.Sprintf("%s/%s-%d", base, leadID, at.UnixMilli())
}

// Book validates the request, checks the lead exists and stores a new
// Scheduled appointment. A zero duration means the default of 60 minutes.
func (s *Service) Book(ctx context.Context, req Request) (*models.Appointment, error) {
	now := s.now()
	if req.DurationMinutes == 0 {
		req.DurationMinutes = models.DefaultAppointmentDuration
	}

	if err := Validate(req, now); err != nil {
		return nil, err
	}

	lead, err := s.leads.GetByID(ctx, req.LeadID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		return nil, domain.NewInternalError(err)
	}

	appt := &models.Appointment{
		ID:              uuid.NewString(),
		LeadID:          lead.ID,
		ScheduledAt:     req.ScheduledAt.UTC(),
		DurationMinutes: req.DurationMinutes,
		AppointmentType: req.AppointmentType,
		Notes:           strings.TrimSpace(req.Notes),
		MeetingLink:     MeetingLink(s.meetingBase, lead.ID, now),
		Status:          models.AppointmentStatusScheduled,
		CreatedAt:       now.UTC(),
	}

	if err := s.appts.Insert(ctx, appt); err != nil {
		return nil, domain.NewInternalError(err)
	}

	s.log.Info("appointment booked", "lead_id", lead.ID, "appointment_id", appt.ID, "type", appt.AppointmentType)

	if s.alerter != nil {
		if err := s.alerter.NotifyAppointmentBooked(ctx, *lead, *appt); err != nil {
			s.log.Warn("failed to post staff alert", "appointment_id", appt.ID, "error", err)
		}
	}

	return appt, nil
}
