package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lendhub/leaddesk/pkg/models"
)

// Content types of the generated files
const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeJSON = "application/json"
)

// DateLayout renders Date Captured as M/D/YYYY
const DateLayout = "1/2/2006"

// Columns is the fixed column order of lead exports
var Columns = []string{
	"Name",
	"Email",
	"Phone",
	"Program Type",
	"Process Stage",
	"Lead Source",
	"Status",
	"Lead Score",
	"Priority",
	"Loan Term",
	"State",
	"Property Address",
	"Acquisition Price",
	"ARV",
	"Date Captured",
}

// Row renders one lead as export cells. Zero or absent loan term, price and
// ARV render empty; score and priority render their effective values.
func Row(l models.Lead, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}

	loanTerm := ""
	if l.LoanTerm != nil && *l.LoanTerm != 0 {
		loanTerm = strconv.Itoa(*l.LoanTerm)
	}

	return []string{
		strings.TrimSpace(l.FirstName + " " + l.LastName),
		l.Email,
		l.CellPhone,
		l.ProgramType,
		l.ProcessStage,
		l.LeadSource,
		string(l.Status),
		formatNumber(l.EffectiveScore()),
		string(l.EffectivePriority()),
		loanTerm,
		l.State,
		l.PropertyAddress,
		optionalNumber(l.AcquisitionPrice),
		optionalNumber(l.ARV),
		l.CreatedAt.In(loc).Format(DateLayout),
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionalNumber(v *float64) string {
	if v == nil || *v == 0 {
		return ""
	}
	return formatNumber(*v)
}

// CSV renders the header plus one row per lead. Every cell is wrapped in
// double quotes, embedded quotes are doubled, rows are joined with "\n" and
// there is no trailing newline.
func CSV(leads []models.Lead, loc *time.Location) string {
	var b strings.Builder
	writeCSVRow(&b, Columns)
	for _, l := range leads {
		b.WriteByte('\n')
		writeCSVRow(&b, Row(l, loc))
	}
	return b.String()
}

func writeCSVRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
}

// CSVFilename is leads-export-YYYY-MM-DD.csv for the day of at
func CSVFilename(at time.Time) string {
	return fmt.Sprintf("leads-export-%s.csv", at.Format("2006-01-02"))
}

// XLSXFilename is leads-export-YYYY-MM-DD.xlsx for the day of at
func XLSXFilename(at time.Time) string {
	return fmt.Sprintf("leads-export-%s.xlsx", at.Format("2006-01-02"))
}

// ReportFilename is analytics-report-YYYY-MM-DD.json for the day of at
func ReportFilename(at time.Time) string {
	return fmt.Sprintf("analytics-report-%s.json", at.Format("2006-01-02"))
}
