package leads

import (
	"context"
	"time"

	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/logger"
	"github.com/lendhub/leaddesk/pkg/models"
)

// WriteHook runs after every successful lead write (insert or status change).
type WriteHook func(ctx context.Context)

// Service handles lead business logic
type Service struct {
	repo     domain.LeadRepository
	board    *Board
	policy   StatusPolicy
	notifier domain.Notifier
	alerter  domain.StaffAlerter
	hooks    []WriteHook
	log      logger.Logger
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithStatusPolicy overrides the default open status policy
func WithStatusPolicy(p StatusPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithStaffAlerter posts staff notifications on new applications
func WithStaffAlerter(a domain.StaffAlerter) Option {
	return func(s *Service) { s.alerter = a }
}

// WithWriteHook registers a callback run after lead writes
func WithWriteHook(h WriteHook) Option {
	return func(s *Service) { s.hooks = append(s.hooks, h) }
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new lead service
func NewService(repo domain.LeadRepository, notifier domain.Notifier, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		board:    NewBoard(),
		policy:   OpenPolicy{},
		notifier: notifier,
		log:      log.With("component", "leads"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Board exposes the in-memory working set
func (s *Service) Board() *Board {
	return s.board
}

// Policy returns the active status policy
func (s *Service) Policy() StatusPolicy {
	return s.policy
}

// SubmitResult is the outcome of a public application
type SubmitResult struct {
	Lead      *models.Lead
	EmailSent bool
}

// Submit validates and stores an application, then sends the welcome email.
// Email and staff alert failures are logged and never undo the insert.
func (s *Service) Submit(ctx context.Context, req ApplicationRequest) (*SubmitResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead, err := req.ToLead(s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, lead); err != nil {
		return nil, domain.NewInternalError(err)
	}
	s.board.Add(*lead)
	s.afterWrite(ctx)

	log := s.log.With("lead_id", lead.ID)
	log.Info("application received", "program_type", lead.ProgramType, "lead_source", lead.LeadSource)

	result := &SubmitResult{Lead: lead, EmailSent: true}
	if err := s.notifier.SendWelcome(ctx, domain.RecipientFromLead(*lead)); err != nil {
		log.Error("failed to send welcome email", "error", err)
		result.EmailSent = false
	}

	if s.alerter != nil {
		if err := s.alerter.NotifyNewApplication(ctx, *lead); err != nil {
			log.Warn("failed to post staff alert", "error", err)
		}
	}

	return result, nil
}

// Reload replaces the working set with a full fetch, newest first.
func (s *Service) Reload(ctx context.Context) error {
	leads, err := s.repo.Select(ctx, models.LeadQuery{Order: models.OrderCreatedDesc})
	if err != nil {
		return domain.NewInternalError(err)
	}
	s.board.Replace(leads, s.now())
	s.log.Debug("board reloaded", "count", len(leads))
	return nil
}

// List returns the ranked view of the working set, loading it on first use
// or when refresh is set.
func (s *Service) List(ctx context.Context, search string, filters FilterSet, refresh bool) ([]models.Lead, error) {
	if refresh || !s.board.Loaded() {
		if err := s.Reload(ctx); err != nil {
			return nil, err
		}
	}
	return s.board.Rank(search, filters), nil
}

// Get fetches a single lead from the store
func (s *Service) Get(ctx context.Context, id string) (*models.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		return nil, domain.NewInternalError(err)
	}
	return lead, nil
}

// SetStatus persists a new status and patches the working set.
// Writing the current status is a no-op that still returns the lead.
func (s *Service) SetStatus(ctx context.Context, id string, status string) (*models.Lead, error) {
	next := models.LeadStatus(status)
	if !next.Valid() {
		return nil, domain.NewFieldValidationError(map[string]string{
			"status": "must be one of New, In Review, Contacted, Approved, Closed",
		})
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == next {
		return current, nil
	}
	if !s.policy.Allow(current.Status, next) {
		return nil, domain.NewConflictError("cannot move lead from " + string(current.Status) + " to " + string(next))
	}

	updated, err := s.repo.Update(ctx, id, models.LeadPatch{Status: &next})
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		return nil, domain.NewInternalError(err)
	}

	s.board.PatchStatus(id, next)
	s.afterWrite(ctx)
	s.log.Info("lead status changed", "lead_id", id, "from", current.Status, "to", next)

	return updated, nil
}

// SendFollowUp emails the follow-up template to a lead. Failure is
// reported as unavailable so the caller can show a non-blocking alert.
func (s *Service) SendFollowUp(ctx context.Context, id string) error {
	lead, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.notifier.SendFollowUp(ctx, domain.RecipientFromLead(*lead)); err != nil {
		s.log.Error("failed to send follow-up email", "lead_id", id, "error", err)
		return domain.NewUnavailableError("Failed to send email", err)
	}
	return nil
}

// SendReminders emails the reminder template to leads still New that were
// created between afterDays+1 and afterDays ago. Run daily, each lead gets
// exactly one reminder. Returns the number of emails sent.
func (s *Service) SendReminders(ctx context.Context, afterDays int) (int, error) {
	now := s.now().UTC()
	before := now.AddDate(0, 0, -afterDays)
	since := before.AddDate(0, 0, -1)

	pending, err := s.repo.Select(ctx, models.LeadQuery{
		CreatedSince:  &since,
		CreatedBefore: &before,
		Status:        models.StatusNew,
		Order:         models.OrderCreatedAsc,
	})
	if err != nil {
		return 0, domain.NewInternalError(err)
	}

	sent := 0
	for _, lead := range pending {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := s.notifier.SendReminder(ctx, domain.RecipientFromLead(lead)); err != nil {
			s.log.Error("failed to send reminder email", "lead_id", lead.ID, "error", err)
			continue
		}
		sent++
	}

	s.log.Info("reminders sent", "sent", sent, "pending", len(pending))
	return sent, nil
}

func (s *Service) afterWrite(ctx context.Context) {
	for _, h := range s.hooks {
		h(ctx)
	}
}
