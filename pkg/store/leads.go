package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lendhub/leaddesk/pkg/database"
	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/models"
)

const leadColumns = `id, created_at, first_name, last_name, email, cell_phone,
	program_type, process_stage, lead_source, status, state, priority,
	loan_term, acquisition_price, arv, lead_score, property_address, notes, details`

const leadsInsert = `INSERT INTO leads (` + leadColumns + `) VALUES (
	:id, :created_at, :first_name, :last_name, :email, :cell_phone,
	:program_type, :process_stage, :lead_source, :status, :state, :priority,
	:loan_term, :acquisition_price, :arv, :lead_score, :property_address, :notes, :details)`

var leadOrders = map[models.LeadOrder]string{
	models.OrderCreatedDesc: "created_at DESC, id",
	models.OrderCreatedAsc:  "created_at ASC, id",
	models.OrderScoreDesc:   "COALESCE(lead_score, 0) DESC, created_at DESC, id",
}

// LeadStore persists leads with sqlx
type LeadStore struct {
	db *sqlx.DB
}

// NewLeadStore creates a lead store on an open client
func NewLeadStore(client *database.Client) *LeadStore {
	return &LeadStore{db: client.DB}
}

// Insert stores a new lead. Timestamps are written in UTC.
func (s *LeadStore) Insert(ctx context.Context, lead *models.Lead) error {
	lead.CreatedAt = lead.CreatedAt.UTC()
	if _, err := s.db.NamedExecContext(ctx, leadsInsert, lead); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// Select returns leads in the creation window, optionally restricted to one
// status, in the requested order (newest first by default).
func (s *LeadStore) Select(ctx context.Context, q models.LeadQuery) ([]models.Lead, error) {
	var (
		where []string
		args  []any
	)
	if q.CreatedSince != nil {
		where = append(where, "created_at >= ?")
		args = append(args, q.CreatedSince.UTC())
	}
	if q.CreatedBefore != nil {
		where = append(where, "created_at < ?")
		args = append(args, q.CreatedBefore.UTC())
	}
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}

	order, ok := leadOrders[q.Order]
	if !ok {
		order = leadOrders[models.OrderCreatedDesc]
	}

	query := "SELECT " + leadColumns + " FROM leads"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + order

	leads := []models.Lead{}
	if err := s.db.SelectContext(ctx, &leads, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select leads: %w", err)
	}
	for i := range leads {
		leads[i].CreatedAt = leads[i].CreatedAt.UTC()
	}
	return leads, nil
}

// GetByID returns one lead or a not found error
func (s *LeadStore) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	var lead models.Lead
	query := s.db.Rebind("SELECT " + leadColumns + " FROM leads WHERE id = ?")
	if err := s.db.GetContext(ctx, &lead, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("lead")
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	lead.CreatedAt = lead.CreatedAt.UTC()
	return &lead, nil
}

// Update applies a partial update and returns the stored lead.
// Last write wins; there is no version check.
func (s *LeadStore) Update(ctx context.Context, id string, patch models.LeadPatch) (*models.Lead, error) {
	if patch.Empty() {
		return s.GetByID(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if patch.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*patch.Priority))
	}
	if patch.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *patch.Notes)
	}
	args = append(args, id)

	query := s.db.Rebind("UPDATE leads SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.NewNotFoundError("lead")
	}

	return s.GetByID(ctx, id)
}
