package testdata

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/models"
)

// LeadGeneratorConfig configures lead generation parameters
type LeadGeneratorConfig struct {
	Count int
	Seed  int64
	// Leads are created uniformly inside [Since, Until).
	Since time.Time
	Until time.Time

	ScoreChance    float64 // 0.0-1.0 (probability of having a lead score)
	LoanTermChance float64
	StateChance    float64
	PriorityChance float64
	AddressChance  float64
}

// DefaultConfig generates a realistic mix of complete and sparse leads
// created over the last 90 days.
func DefaultConfig(count int) LeadGeneratorConfig {
	now := time.Now().UTC()
	return LeadGeneratorConfig{
		Count:          count,
		Seed:           42,
		Since:          now.AddDate(0, 0, -90),
		Until:          now,
		ScoreChance:    0.8,
		LoanTermChance: 0.6,
		StateChance:    0.7,
		PriorityChance: 0.5,
		AddressChance:  0.5,
	}
}

var priorities = []models.Priority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow}

// GenerateLeads builds fake leads. The same seed yields the same leads
// apart from their IDs.
func GenerateLeads(config LeadGeneratorConfig) []models.Lead {
	f := gofakeit.New(config.Seed)
	if config.Until.IsZero() {
		config.Until = time.Now().UTC()
	}
	if config.Since.IsZero() || !config.Since.Before(config.Until) {
		config.Since = config.Until.AddDate(0, 0, -30)
	}

	leads := make([]models.Lead, 0, config.Count)
	for i := 0; i < config.Count; i++ {
		leads = append(leads, generateLead(f, config))
	}
	return leads
}

func generateLead(f *gofakeit.Faker, config LeadGeneratorConfig) models.Lead {
	first, last := f.FirstName(), f.LastName()

	l := models.Lead{
		ID:           uuid.NewString(),
		CreatedAt:    f.DateRange(config.Since, config.Until).UTC().Truncate(time.Second),
		FirstName:    first,
		LastName:     last,
		Email:        fmt.Sprintf("%s.%s@%s", first, last, f.DomainName()),
		CellPhone:    fmt.Sprintf("+1%d%07d", f.Number(201, 989), f.Number(0, 9999999)),
		ProgramType:  f.RandomString(models.ProgramTypes),
		ProcessStage: f.RandomString(models.ProcessStages),
		LeadSource:   f.RandomString(models.LeadSources),
		Status:       models.LeadStatuses[f.Number(0, len(models.LeadStatuses)-1)],
		Details: models.ApplicationDetails{
			City:          f.City(),
			ZipCode:       f.Zip(),
			TermsAccepted: true,
		},
	}

	if f.Float64() < config.ScoreChance {
		score := float64(f.Number(0, 100))
		l.LeadScore = &score
	}
	if f.Float64() < config.LoanTermChance {
		term := f.RandomInt(models.LoanTerms)
		l.LoanTerm = &term
	}
	if f.Float64() < config.StateChance {
		l.State = f.StateAbr()
	}
	if f.Float64() < config.PriorityChance {
		l.Priority = priorities[f.Number(0, len(priorities)-1)]
	}
	if f.Float64() < config.AddressChance {
		l.PropertyAddress = fmt.Sprintf("%s, %s", f.Street(), f.City())
		price := float64(f.Number(80, 900)) * 1000
		arv := price * f.Float64Range(1.1, 1.6)
		l.AcquisitionPrice = &price
		l.ARV = &arv
	}

	return l
}

// BulkInsertLeads writes leads through the repository one by one
func BulkInsertLeads(ctx context.Context, repo domain.LeadRepository, leads []models.Lead) error {
	for i := range leads {
		if err := repo.Insert(ctx, &leads[i]); err != nil {
			return fmt.Errorf("insert lead %d: %w", i, err)
		}
	}
	return nil
}
