package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lendhub/leaddesk/pkg/cache"
	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/leads"
	"github.com/lendhub/leaddesk/pkg/logger"
	"github.com/lendhub/leaddesk/pkg/models"
)

// Windows lists the selectable look-back periods in days
var Windows = []int{7, 30, 60, 90, 365}

// DefaultWindow is used when a query does not name a window
const DefaultWindow = 30

const keyPrefix = "analytics:"

// Query selects the leads to aggregate
type Query struct {
	WindowDays int
	Filters    leads.FilterSet
}

// Cache is the subset of the Redis client used for memoisation
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any, expiration time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// Service computes analytics summaries over the lead store
type Service struct {
	repo  domain.LeadRepository
	cache Cache
	ttl   time.Duration
	loc   *time.Location
	log   logger.Logger
	now   func() time.Time
}

// NewService creates an analytics service. A nil cache disables memoisation.
func NewService(repo domain.LeadRepository, c Cache, ttl time.Duration, loc *time.Location, log logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:  repo,
		cache: c,
		ttl:   ttl,
		loc:   loc,
		log:   log.With("component", "analytics"),
		now:   time.Now,
	}
}

// SetClock replaces time.Now, for tests
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Location returns the timezone used for day grouping
func (s *Service) Location() *time.Location {
	return s.loc
}

// NormalizeWindow maps 0 to the default window and rejects unlisted values
func NormalizeWindow(days int) (int, error) {
	if days == 0 {
		return DefaultWindow, nil
	}
	for _, w := range Windows {
		if days == w {
			return days, nil
		}
	}
	return 0, domain.NewFieldValidationError(map[string]string{
		"days": "must be one of 7, 30, 60, 90, 365",
	})
}

func cacheKey(q Query) string {
	return fmt.Sprintf("%ssummary:%d:%s", keyPrefix, q.WindowDays, q.Filters.Key())
}

// Summary aggregates the leads created in the last WindowDays days that
// match the filters. A cached copy for the same window and filters is
// returned while fresh; otherwise the summary is recomputed in full.
func (s *Service) Summary(ctx context.Context, q Query) (*Summary, error) {
	days, err := NormalizeWindow(q.WindowDays)
	if err != nil {
		return nil, err
	}
	q.WindowDays = days

	key := cacheKey(q)
	if s.cache != nil {
		var cached Summary
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("analytics cache read failed", "key", key, "error", err)
		}
	}

	since := s.now().AddDate(0, 0, -days)
	windowed, err := s.repo.Select(ctx, models.LeadQuery{CreatedSince: &since, Order: models.OrderCreatedAsc})
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	summary := Aggregate(leads.Filter(windowed, q.Filters.Predicates()...), s.loc)

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, key, summary, s.ttl); err != nil {
			s.log.Warn("analytics cache write failed", "key", key, "error", err)
		}
	}

	return &summary, nil
}

// Invalidate drops every memoised summary. Registered as a lead write hook.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, keyPrefix+"*"); err != nil {
		s.log.Warn("analytics cache invalidation failed", "error", err)
	}
}
