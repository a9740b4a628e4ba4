package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/lendhub/leaddesk/pkg/models"
)

// DayLayout is the date key of the time series
const DayLayout = "2006-01-02"

// DailyCount is one point of the leads-over-time series
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary is the derived analytics view of a set of leads
type Summary struct {
	TotalLeads     int            `json:"total_leads"`
	ClosedCount    int            `json:"closed_count"`
	ConversionRate float64        `json:"conversion_rate"` // percent, 0-100
	ByProgramType  map[string]int `json:"by_program_type"`
	ByLoanTerm     map[string]int `json:"by_loan_term"`
	ByProcessStage map[string]int `json:"by_process_stage"`
	BySource       map[string]int `json:"by_source"`
	ByState        map[string]int `json:"by_state"`
	ByStatus       map[string]int `json:"by_status"`
	LeadsOverTime  []DailyCount   `json:"leads_over_time"`
}

// Aggregate counts leads per dimension and per local calendar day in loc
// (UTC when nil). Loan term and state skip leads without a value; every
// other grouping counts each lead exactly once, empty values included.
func Aggregate(leads []models.Lead, loc *time.Location) Summary {
	if loc == nil {
		loc = time.UTC
	}

	s := Summary{
		TotalLeads:     len(leads),
		ByProgramType:  map[string]int{},
		ByLoanTerm:     map[string]int{},
		ByProcessStage: map[string]int{},
		BySource:       map[string]int{},
		ByState:        map[string]int{},
		ByStatus:       map[string]int{},
		LeadsOverTime:  []DailyCount{},
	}

	perDay := map[string]int{}
	for _, l := range leads {
		s.ByProgramType[l.ProgramType]++
		s.ByProcessStage[l.ProcessStage]++
		s.BySource[l.LeadSource]++
		s.ByStatus[string(l.Status)]++

		if l.LoanTerm != nil {
			s.ByLoanTerm[strconv.Itoa(*l.LoanTerm)]++
		}
		if l.State != "" {
			s.ByState[l.State]++
		}
		if l.Status == models.StatusClosed {
			s.ClosedCount++
		}

		perDay[l.CreatedAt.In(loc).Format(DayLayout)]++
	}

	for day, n := range perDay {
		s.LeadsOverTime = append(s.LeadsOverTime, DailyCount{Date: day, Count: n})
	}
	sort.Slice(s.LeadsOverTime, func(i, j int) bool {
		return s.LeadsOverTime[i].Date < s.LeadsOverTime[j].Date
	})

	if s.TotalLeads > 0 {
		s.ConversionRate = float64(s.ClosedCount) / float64(s.TotalLeads) * 100
	}

	return s
}
