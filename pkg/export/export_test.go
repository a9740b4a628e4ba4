package export

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lendhub/leaddesk/pkg/analytics"
	"github.com/lendhub/leaddesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const wantHeader = `"Name","Email","Phone","Program Type","Process Stage","Lead Source","Status","Lead Score","Priority","Loan Term","State","Property Address","Acquisition Price","ARV","Date Captured"`

func ptr[T any](v T) *T { return &v }

func joLi() models.Lead {
	return models.Lead{
		ID:           "1",
		CreatedAt:    time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC),
		FirstName:    "Jo",
		LastName:     "Li",
		Email:        "jo@x.com",
		CellPhone:    "+12024561111",
		ProgramType:  "Fix & Flip",
		ProcessStage: "Under Contract",
		LeadSource:   "Google",
		Status:       models.StatusNew,
	}
}

func TestCSV_SingleLead(t *testing.T) {
	out := CSV([]models.Lead{joLi()}, time.UTC)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, wantHeader, lines[0])
	assert.Equal(t,
		`"Jo Li","jo@x.com","+12024561111","Fix & Flip","Under Contract","Google","New","0","Medium","","","","","","3/5/2025"`,
		lines[1])
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestCSV_AllFields(t *testing.T) {
	l := joLi()
	l.LeadScore = ptr(87.5)
	l.Priority = models.PriorityHigh
	l.LoanTerm = ptr(24)
	l.State = "TX"
	l.PropertyAddress = `12 "Oak" St, Austin`
	l.AcquisitionPrice = ptr(250000.0)
	l.ARV = ptr(410000.0)

	cells := Row(l, time.UTC)
	require.Len(t, cells, len(Columns))
	assert.Equal(t, "87.5", cells[7])
	assert.Equal(t, "High", cells[8])
	assert.Equal(t, "24", cells[9])
	assert.Equal(t, "250000", cells[12])
	assert.Equal(t, "410000", cells[13])

	out := CSV([]models.Lead{l}, time.UTC)
	assert.Contains(t, out, `"12 ""Oak"" St, Austin"`)
}

func TestCSV_DateInLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	l := joLi()
	l.CreatedAt = time.Date(2025, 3, 6, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, "3/6/2025", Row(l, time.UTC)[14])
	assert.Equal(t, "3/5/2025", Row(l, ny)[14])
}

func TestCSV_Empty(t *testing.T) {
	assert.Equal(t, wantHeader, CSV(nil, time.UTC))
}

func TestFilenames(t *testing.T) {
	at := time.Date(2025, 1, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "leads-export-2025-01-09.csv", CSVFilename(at))
	assert.Equal(t, "leads-export-2025-01-09.xlsx", XLSXFilename(at))
	assert.Equal(t, "analytics-report-2025-01-09.json", ReportFilename(at))
}

func TestXLSX(t *testing.T) {
	data, err := XLSX([]models.Lead{joLi()}, time.UTC)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Leads"}, f.GetSheetList())

	rows, err := f.GetRows("Leads")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "Jo Li", rows[1][0])
	assert.Equal(t, "3/5/2025", rows[1][14])
}

func TestReport(t *testing.T) {
	s := analytics.Summary{
		TotalLeads:     3,
		ClosedCount:    2,
		ConversionRate: 200.0 / 3.0,
		ByProgramType:  map[string]int{"Bridge Loan": 3},
		ByLoanTerm:     map[string]int{"12": 1},
		ByProcessStage: map[string]int{},
		BySource:       map[string]int{},
		ByState:        map[string]int{},
		ByStatus:       map[string]int{"Closed": 2, "New": 1},
	}

	r := NewReport(s, 30, time.Date(2025, 4, 1, 14, 5, 9, 0, time.UTC))
	assert.Equal(t, "66.67%", r.ConversionRate)
	assert.Equal(t, "Last 30 days", r.DateRange)
	assert.Equal(t, "4/1/2025, 2:05:09 PM", r.ReportGenerated)

	data, err := r.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 10)
	assert.Equal(t, float64(3), decoded["Total Leads"])

	text := string(data)
	assert.Less(t, strings.Index(text, "Report Generated"), strings.Index(text, "Date Range"))
	assert.Less(t, strings.Index(text, "Leads by State"), strings.Index(text, "Leads by Status"))
}

func TestLocalStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	p, err := store.Save(context.Background(), "../leads-export-2025-01-09.csv", ContentTypeCSV, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "leads-export-2025-01-09.csv"), p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	client := &fakeS3{}
	store := NewS3Store(client, "leaddesk-archive", "")

	uri, err := store.Save(context.Background(), "analytics-report-2025-01-09.json", ContentTypeJSON, []byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "s3://leaddesk-archive/exports/analytics-report-2025-01-09.json", uri)
	assert.Equal(t, "leaddesk-archive", aws.ToString(client.input.Bucket))
	assert.Equal(t, ContentTypeJSON, aws.ToString(client.input.ContentType))
	assert.Equal(t, "{}", string(client.body))
}

func TestNewArchiveStore(t *testing.T) {
	ctx := context.Background()

	store, err := NewArchiveStore(ctx, ArchiveConfig{Type: "none"})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = NewArchiveStore(ctx, ArchiveConfig{Type: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = NewArchiveStore(ctx, ArchiveConfig{Type: "s3"})
	assert.Error(t, err)

	_, err = NewArchiveStore(ctx, ArchiveConfig{Type: "ftp"})
	assert.Error(t, err)
}
