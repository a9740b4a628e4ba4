package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lendhub/leaddesk/pkg/database"
	"github.com/lendhub/leaddesk/pkg/models"
)

const crmSyncLogInsert = `INSERT INTO crm_sync_log
	(id, lead_id, crm_system, sync_status, crm_record_id, sync_data, error_message, synced_at, created_at)
	VALUES
	(:id, :lead_id, :crm_system, :sync_status, :crm_record_id, :sync_data, :error_message, :synced_at, :created_at)`

// CRMSyncLogStore persists CRM sync attempts
type CRMSyncLogStore struct {
	db *sqlx.DB
}

// NewCRMSyncLogStore creates a sync log store on an open client
func NewCRMSyncLogStore(client *database.Client) *CRMSyncLogStore {
	return &CRMSyncLogStore{db: client.DB}
}

// Insert records one sync attempt
func (s *CRMSyncLogStore) Insert(ctx context.Context, entry *models.CRMSyncLog) error {
	entry.CreatedAt = entry.CreatedAt.UTC()
	if entry.SyncedAt != nil {
		t := entry.SyncedAt.UTC()
		entry.SyncedAt = &t
	}
	if _, err := s.db.NamedExecContext(ctx, crmSyncLogInsert, entry); err != nil {
		return fmt.Errorf("insert crm sync log: %w", err)
	}
	return nil
}

// ListByLead returns the sync history of a lead, newest first
func (s *CRMSyncLogStore) ListByLead(ctx context.Context, leadID string) ([]models.CRMSyncLog, error) {
	entries := []models.CRMSyncLog{}
	query := s.db.Rebind(`SELECT id, lead_id, crm_system, sync_status, crm_record_id, sync_data,
		error_message, synced_at, created_at
		FROM crm_sync_log WHERE lead_id = ? ORDER BY created_at DESC`)
	if err := s.db.SelectContext(ctx, &entries, query, leadID); err != nil {
		return nil, fmt.Errorf("list crm sync log: %w", err)
	}
	return entries, nil
}
