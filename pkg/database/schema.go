package database

import (
	"context"
	"fmt"
	"strings"
)

// {{ts}} is replaced by the driver's timestamp type. go-sqlite3 only
// decodes columns declared TIMESTAMP back into time.Time.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id                TEXT PRIMARY KEY,
		created_at        {{ts}} NOT NULL,
		first_name        TEXT NOT NULL,
		last_name         TEXT NOT NULL,
		email             TEXT NOT NULL,
		cell_phone        TEXT NOT NULL,
		program_type      TEXT NOT NULL,
		process_stage     TEXT NOT NULL DEFAULT '',
		lead_source       TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT 'New',
		state             TEXT NOT NULL DEFAULT '',
		priority          TEXT NOT NULL DEFAULT '',
		loan_term         INTEGER,
		acquisition_price DOUBLE PRECISION,
		arv               DOUBLE PRECISION,
		lead_score        DOUBLE PRECISION,
		property_address  TEXT NOT NULL DEFAULT '',
		notes             TEXT NOT NULL DEFAULT '',
		details           TEXT NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads (status)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id               TEXT PRIMARY KEY,
		lead_id          TEXT NOT NULL REFERENCES leads (id),
		scheduled_at     {{ts}} NOT NULL,
		duration_minutes INTEGER NOT NULL,
		appointment_type TEXT NOT NULL,
		notes            TEXT NOT NULL DEFAULT '',
		meeting_link     TEXT NOT NULL,
		status           TEXT NOT NULL,
		created_at       {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_lead_id ON appointments (lead_id)`,
	`CREATE TABLE IF NOT EXISTS crm_sync_log (
		id            TEXT PRIMARY KEY,
		lead_id       TEXT NOT NULL REFERENCES leads (id),
		crm_system    TEXT NOT NULL,
		sync_status   TEXT NOT NULL,
		crm_record_id TEXT,
		sync_data     TEXT NOT NULL,
		error_message TEXT,
		synced_at     {{ts}},
		created_at    {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_crm_sync_log_lead_id ON crm_sync_log (lead_id)`,
}

func timestampType(driver string) string {
	if driver == DriverPostgres {
		return "TIMESTAMPTZ"
	}
	return "TIMESTAMP"
}

// Migrate creates missing tables and indexes. Existing tables are left as is.
func (c *Client) Migrate(ctx context.Context) error {
	ts := timestampType(c.Driver)
	for _, stmt := range schema {
		if _, err := c.DB.ExecContext(ctx, strings.ReplaceAll(stmt, "{{ts}}", ts)); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
