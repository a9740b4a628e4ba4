package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CRM sync outcomes
const (
	CRMSyncSuccess = "success"
	CRMSyncFailed  = "failed"
)

// CRMSyncPayload is the lead summary pushed to an external CRM
type CRMSyncPayload struct {
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	ProgramType     string     `json:"programType"`
	ProcessStage    string     `json:"processStage"`
	LeadSource      string     `json:"leadSource"`
	Status          LeadStatus `json:"status"`
	LeadScore       *float64   `json:"leadScore"`
	Priority        Priority   `json:"priority"`
	PropertyAddress string     `json:"propertyAddress"`
	PropertyValue   *float64   `json:"propertyValue"`
	LoanAmount      *float64   `json:"loanAmount"`
	City            string     `json:"city"`
	State           string     `json:"state"`
	ZipCode         string     `json:"zipCode"`
}

// NewCRMSyncPayload builds the CRM payload for a lead
func NewCRMSyncPayload(l Lead) CRMSyncPayload {
	return CRMSyncPayload{
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Email:           l.Email,
		Phone:           l.CellPhone,
		ProgramType:     l.ProgramType,
		ProcessStage:    l.ProcessStage,
		LeadSource:      l.LeadSource,
		Status:          l.Status,
		LeadScore:       l.LeadScore,
		Priority:        l.Priority,
		PropertyAddress: l.PropertyAddress,
		PropertyValue:   l.Details.PropertyValueAsIs,
		LoanAmount:      l.AcquisitionPrice,
		City:            l.Details.City,
		State:           l.State,
		ZipCode:         l.Details.ZipCode,
	}
}

// Value implements driver.Valuer
func (p CRMSyncPayload) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (p *CRMSyncPayload) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = CRMSyncPayload{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("crm sync payload: unsupported type %T", src)
	}
}

// CRMSyncLog records one sync attempt, successful or not
type CRMSyncLog struct {
	ID           string         `db:"id" json:"id"`
	LeadID       string         `db:"lead_id" json:"lead_id"`
	CRMSystem    string         `db:"crm_system" json:"crm_system"`
	SyncStatus   string         `db:"sync_status" json:"sync_status"`
	CRMRecordID  *string        `db:"crm_record_id" json:"crm_record_id"`
	SyncData     CRMSyncPayload `db:"sync_data" json:"sync_data"`
	ErrorMessage *string        `db:"error_message" json:"error_message"`
	SyncedAt     *time.Time     `db:"synced_at" json:"synced_at"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// CRMSyncResponse is returned by POST /leads/:id/crm-sync
type CRMSyncResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	SyncStatus   string  `json:"syncStatus"`
	CRMRecordID  *string `json:"crmRecordId"`
	ErrorMessage *string `json:"errorMessage"`
}
