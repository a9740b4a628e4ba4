package domain

import (
	"context"
	"time"

	"github.com/lendhub/leaddesk/pkg/models"
)

// LeadRepository defines data access operations for leads
type LeadRepository interface {
	Insert(ctx context.Context, lead *models.Lead) error
	Select(ctx context.Context, q models.LeadQuery) ([]models.Lead, error)
	GetByID(ctx context.Context, id string) (*models.Lead, error)
	Update(ctx context.Context, id string, patch models.LeadPatch) (*models.Lead, error)
}

// AppointmentRepository stores booked appointments
type AppointmentRepository interface {
	Insert(ctx context.Context, appt *models.Appointment) error
}

// CRMSyncLogRepository records CRM sync attempts
type CRMSyncLogRepository interface {
	Insert(ctx context.Context, entry *models.CRMSyncLog) error
}

// CacheRepository defines caching operations
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Recipient is the notification payload shared by every lead email
type Recipient struct {
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	ProgramType string `json:"programType"`
	LeadID      string `json:"leadId"`
}

// RecipientFromLead builds the notification payload for a lead
func RecipientFromLead(l models.Lead) Recipient {
	return Recipient{
		Email:       l.Email,
		FirstName:   l.FirstName,
		LastName:    l.LastName,
		ProgramType: l.ProgramType,
		LeadID:      l.ID,
	}
}

// Notifier sends templated lead emails
type Notifier interface {
	SendWelcome(ctx context.Context, r Recipient) error
	SendFollowUp(ctx context.Context, r Recipient) error
	SendReminder(ctx context.Context, r Recipient) error
}

// StaffAlerter posts internal notifications (Slack) about lead activity
type StaffAlerter interface {
	NotifyNewApplication(ctx context.Context, lead models.Lead) error
	NotifyAppointmentBooked(ctx context.Context, lead models.Lead, appt models.Appointment) error
}

// ArchiveStore persists generated export files
type ArchiveStore interface {
	Save(ctx context.Context, name string, contentType string, data []byte) (string, error)
}
