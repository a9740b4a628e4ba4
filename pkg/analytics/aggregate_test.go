package analytics

import (
	"testing"
	"time"

	"github.com/lendhub/leaddesk/pkg/models"
	"github.com/lendhub/leaddesk/pkg/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func sum(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, nil)

	assert.Equal(t, 0, s.TotalLeads)
	assert.Equal(t, 0, s.ClosedCount)
	assert.Equal(t, 0.0, s.ConversionRate)
	assert.Empty(t, s.ByStatus)
	assert.NotNil(t, s.ByStatus)
	assert.NotNil(t, s.LeadsOverTime)
	assert.Empty(t, s.LeadsOverTime)
}

func TestAggregate_ConversionScenario(t *testing.T) {
	created := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		{Status: models.StatusClosed, CreatedAt: created},
		{Status: models.StatusNew, CreatedAt: created},
		{Status: models.StatusClosed, CreatedAt: created},
	}

	s := Aggregate(leads, time.UTC)

	assert.Equal(t, 3, s.TotalLeads)
	assert.Equal(t, 2, s.ClosedCount)
	assert.InDelta(t, 66.67, s.ConversionRate, 0.01)
	assert.Equal(t, map[string]int{"Closed": 2, "New": 1}, s.ByStatus)
}

func TestAggregate_Groupings(t *testing.T) {
	day := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		{ProgramType: "Fix & Flip", ProcessStage: "Actively Looking", LeadSource: "Google", Status: models.StatusNew, LoanTerm: intPtr(12), State: "TX", CreatedAt: day},
		{ProgramType: "Fix & Flip", ProcessStage: "", LeadSource: "Yelp", Status: models.StatusNew, LoanTerm: intPtr(24), CreatedAt: day},
		{ProgramType: "DSCR/Rental", ProcessStage: "Actively Looking", LeadSource: "", Status: models.StatusApproved, State: "TX", CreatedAt: day},
	}

	s := Aggregate(leads, time.UTC)

	assert.Equal(t, map[string]int{"Fix & Flip": 2, "DSCR/Rental": 1}, s.ByProgramType)
	assert.Equal(t, map[string]int{"Actively Looking": 2, "": 1}, s.ByProcessStage)
	assert.Equal(t, map[string]int{"Google": 1, "Yelp": 1, "": 1}, s.BySource)
	assert.Equal(t, map[string]int{"12": 1, "24": 1}, s.ByLoanTerm, "leads without a loan term are skipped")
	assert.Equal(t, map[string]int{"TX": 2}, s.ByState, "leads without a state are skipped")
}

func TestAggregate_TimeSeriesUsesLocalDays(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	leads := []models.Lead{
		// 2025-03-02 03:00 UTC is still March 1st in New York
		{CreatedAt: time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2025, 3, 5, 18, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2025, 2, 27, 18, 0, 0, 0, time.UTC)},
	}

	s := Aggregate(leads, ny)
	assert.Equal(t, []DailyCount{
		{Date: "2025-02-27", Count: 1},
		{Date: "2025-03-01", Count: 2},
		{Date: "2025-03-05", Count: 1},
	}, s.LeadsOverTime)

	utc := Aggregate(leads, time.UTC)
	assert.Len(t, utc.LeadsOverTime, 4)
}

func TestAggregate_Properties(t *testing.T) {
	cfg := testdata.DefaultConfig(250)
	cfg.Until = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	cfg.Since = cfg.Until.AddDate(0, 0, -60)
	leads := testdata.GenerateLeads(cfg)

	s := Aggregate(leads, time.UTC)

	assert.Equal(t, len(leads), s.TotalLeads)
	assert.Equal(t, len(leads), sum(s.ByStatus))
	assert.Equal(t, len(leads), sum(s.ByProgramType))
	assert.Equal(t, len(leads), sum(s.ByProcessStage))
	assert.Equal(t, len(leads), sum(s.BySource))
	assert.LessOrEqual(t, sum(s.ByLoanTerm), len(leads))
	assert.LessOrEqual(t, sum(s.ByState), len(leads))

	days := 0
	for i, p := range s.LeadsOverTime {
		days += p.Count
		if i > 0 {
			assert.Less(t, s.LeadsOverTime[i-1].Date, p.Date)
		}
	}
	assert.Equal(t, len(leads), days)

	assert.Equal(t, s, Aggregate(leads, time.UTC), "aggregate is deterministic")
}
