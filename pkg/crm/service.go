package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/logger"
	"github.com/lendhub/leaddesk/pkg/models"
)

// Pusher delivers a payload to a CRM
type Pusher interface {
	Configured() bool
	Push(ctx context.Context, payload models.CRMSyncPayload) (string, error)
}

// Service syncs leads to the configured CRM and records every attempt
type Service struct {
	system string
	leads  domain.LeadRepository
	logs   domain.CRMSyncLogRepository
	pusher Pusher
	log    logger.Logger
	now    func() time.Time
}

// NewService creates a sync service. When pusher is nil or not configured,
// syncs are simulated.
func NewService(system string, leads domain.LeadRepository, logs domain.CRMSyncLogRepository, pusher Pusher, log logger.Logger) *Service {
	return &Service{
		system: system,
		leads:  leads,
		logs:   logs,
		pusher: pusher,
		log:    log.With("component", "crm", "crm_system", system),
		now:    time.Now,
	}
}

// SetClock replaces time.Now, for tests
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Sync pushes one lead. A CRM rejection is reported in the response, not as
// an error; errors are reserved for a missing lead or store failures.
func (s *Service) Sync(ctx context.Context, leadID string) (*models.CRMSyncResponse, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		return nil, domain.NewInternalError(err)
	}

	payload := models.NewCRMSyncPayload(*lead)
	entry := &models.CRMSyncLog{
		ID:        uuid.NewString(),
		LeadID:    lead.ID,
		CRMSystem: s.system,
		SyncData:  payload,
	}

	var recordID string
	if s.pusher != nil && s.pusher.Configured() {
		recordID, err = s.pusher.Push(ctx, payload)
	} else {
		recordID = fmt.Sprintf("simulated-%d", s.now().UnixMilli())
		s.log.Info("crm sync simulated (no endpoint configured)", "lead_id", lead.ID)
	}

	now := s.now().UTC()
	entry.CreatedAt = now
	if err != nil {
		msg := err.Error()
		entry.SyncStatus = models.CRMSyncFailed
		entry.ErrorMessage = &msg
		s.log.Warn("crm sync failed", "lead_id", lead.ID, "error", err)
	} else {
		entry.SyncStatus = models.CRMSyncSuccess
		entry.SyncedAt = &now
		if recordID != "" {
			entry.CRMRecordID = &recordID
		}
	}

	if err := s.logs.Insert(ctx, entry); err != nil {
		s.log.Error("failed to log crm sync", "lead_id", lead.ID, "error", err)
	}

	resp := &models.CRMSyncResponse{
		Success:      entry.SyncStatus == models.CRMSyncSuccess,
		SyncStatus:   entry.SyncStatus,
		CRMRecordID:  entry.CRMRecordID,
		ErrorMessage: entry.ErrorMessage,
	}
	if resp.Success {
		resp.Message = "Lead synced to CRM successfully"
	} else {
		resp.Message = "CRM sync failed"
	}
	return resp, nil
}
