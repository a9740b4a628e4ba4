package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lendhub/leaddesk/pkg/analytics"
)

// ReportGeneratedLayout formats the Report Generated field
const ReportGeneratedLayout = "1/2/2006, 3:04:05 PM"

// Report is the downloadable analytics report. Field order is the output
// order.
type Report struct {
	ReportGenerated     string         `json:"Report Generated"`
	DateRange           string         `json:"Date Range"`
	TotalLeads          int            `json:"Total Leads"`
	ConversionRate      string         `json:"Conversion Rate"`
	LeadsByProgramType  map[string]int `json:"Leads by Program Type"`
	LeadsByLoanTerm     map[string]int `json:"Leads by Loan Term"`
	LeadsByProcessStage map[string]int `json:"Leads by Process Stage"`
	LeadsBySource       map[string]int `json:"Leads by Source"`
	LeadsByState        map[string]int `json:"Leads by State"`
	LeadsByStatus       map[string]int `json:"Leads by Status"`
}

// NewReport builds a report from a summary over the last windowDays days
func NewReport(s analytics.Summary, windowDays int, generatedAt time.Time) Report {
	return Report{
		ReportGenerated:     generatedAt.Format(ReportGeneratedLayout),
		DateRange:           fmt.Sprintf("Last %d days", windowDays),
		TotalLeads:          s.TotalLeads,
		ConversionRate:      fmt.Sprintf("%.2f%%", s.ConversionRate),
		LeadsByProgramType:  s.ByProgramType,
		LeadsByLoanTerm:     s.ByLoanTerm,
		LeadsByProcessStage: s.ByProcessStage,
		LeadsBySource:       s.BySource,
		LeadsByState:        s.ByState,
		LeadsByStatus:       s.ByStatus,
	}
}

// JSON renders the report indented by two spaces
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
