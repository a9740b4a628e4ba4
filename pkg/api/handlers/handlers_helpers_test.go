package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/analytics"
	"github.com/lendhub/leaddesk/pkg/appointments"
	"github.com/lendhub/leaddesk/pkg/crm"
	"github.com/lendhub/leaddesk/pkg/database/dbtest"
	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/lendhub/leaddesk/pkg/leads"
	"github.com/lendhub/leaddesk/pkg/logger"
	"github.com/lendhub/leaddesk/pkg/metrics"
	"github.com/lendhub/leaddesk/pkg/models"
	"github.com/lendhub/leaddesk/pkg/store"
	"github.com/stretchr/testify/require"
)

// fixed server clock: 2025-06-01 12:00 UTC
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu       sync.Mutex
	welcome  []domain.Recipient
	followUp []domain.Recipient
	err      error
}

func (n *recordingNotifier) SendWelcome(_ context.Context, r domain.Recipient) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcome = append(n.welcome, r)
	return n.err
}

func (n *recordingNotifier) SendFollowUp(_ context.Context, r domain.Recipient) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.followUp = append(n.followUp, r)
	return n.err
}

func (n *recordingNotifier) SendReminder(context.Context, domain.Recipient) error {
	return n.err
}

type memoryArchive struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (a *memoryArchive) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.files == nil {
		a.files = map[string][]byte{}
	}
	a.files[name] = data
	return "memory://" + name, nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

var errSMTPDown = errors.New("smtp down")

// testEnv wires every handler over an in-memory SQLite database
type testEnv struct {
	leadStore   *store.LeadStore
	apptStore   *store.AppointmentStore
	syncLogs    *store.CRMSyncLogStore
	notifier    *recordingNotifier
	archive     *memoryArchive
	leadSvc     *leads.Service
	application *ApplicationHandler
	lead        *LeadHandler
	appointment *AppointmentHandler
	crm         *CRMHandler
	analytics   *AnalyticsHandler
	export      *ExportHandler
}

func setupHandlers(t *testing.T) *testEnv {
	t.Helper()

	client := dbtest.Open(t)
	log := logger.Discard()
	m := metrics.New(nil)
	clock := func() time.Time { return testNow }

	env := &testEnv{
		leadStore: store.NewLeadStore(client),
		apptStore: store.NewAppointmentStore(client),
		syncLogs:  store.NewCRMSyncLogStore(client),
		notifier:  &recordingNotifier{},
		archive:   &memoryArchive{},
	}

	analyticsSvc := analytics.NewService(env.leadStore, nil, 0, time.UTC, log)
	analyticsSvc.SetClock(clock)
	env.leadSvc = leads.NewService(env.leadStore, env.notifier, log,
		leads.WithClock(clock),
		leads.WithWriteHook(analyticsSvc.Invalidate),
	)

	apptSvc := appointments.NewService(env.leadStore, env.apptStore, nil, "https://meet.example.com", log)
	apptSvc.SetClock(clock)

	crmSvc := crm.NewService("generic", env.leadStore, env.syncLogs, crm.NewHTTPClient("", ""), log)
	crmSvc.SetClock(clock)

	env.application = NewApplicationHandler(env.leadSvc, m)
	env.lead = NewLeadHandler(env.leadSvc, m)
	env.appointment = NewAppointmentHandler(apptSvc, m)
	env.crm = NewCRMHandler(crmSvc, m)
	env.analytics = NewAnalyticsHandler(analyticsSvc)
	env.export = NewExportHandler(env.leadSvc, analyticsSvc, env.archive, time.UTC, m, log)
	env.export.now = clock

	return env
}

func ptr[T any](v T) *T { return &v }

// seedLead inserts a lead created days before the test clock
func (env *testEnv) seedLead(t *testing.T, id, first, last string, score float64, daysAgo int) models.Lead {
	t.Helper()
	lead := models.Lead{
		ID:           id,
		CreatedAt:    testNow.AddDate(0, 0, -daysAgo),
		FirstName:    first,
		LastName:     last,
		Email:        strings.ToLower(first) + "@example.com",
		CellPhone:    "+15125550100",
		ProgramType:  "Fix & Flip",
		ProcessStage: "Actively Looking",
		LeadSource:   "Google",
		Status:       models.StatusNew,
		State:        "TX",
		LeadScore:    ptr(score),
	}
	require.NoError(t, env.leadStore.Insert(context.Background(), &lead))
	return lead
}

// newContext builds an echo context for a handler call. params are
// name/value pairs for path parameters.
func newContext(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	if len(names) > 0 {
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}
