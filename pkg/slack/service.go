package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lendhub/leaddesk/pkg/models"
	"github.com/lendhub/leaddesk/pkg/phone"
)

var (
	// ErrSlackSendFailed is returned when the webhook does not accept the message
	ErrSlackSendFailed = errors.New("failed to send Slack notification")
)

// Message represents a Slack message
type Message struct {
	Text string `json:"text"`
}

// SlackClient is an interface for sending Slack notifications
type SlackClient interface {
	SendMessage(ctx context.Context, msg Message) error
}

// WebhookClient implements SlackClient using an incoming webhook
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient creates a new Slack webhook client
func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendMessage posts a message to the webhook
func (c *WebhookClient) SendMessage(ctx context.Context, msg Message) error {
	if c.webhookURL == "" {
		return fmt.Errorf("slack webhook URL not configured")
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSlackSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrSlackSendFailed, resp.StatusCode)
	}

	return nil
}

// Service posts staff alerts about lead activity. A nil client disables it.
type Service struct {
	client SlackClient
	loc    *time.Location
}

// NewService creates a new Slack service. Times are shown in loc.
func NewService(client SlackClient, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{client: client, loc: loc}
}

// IsEnabled returns true if Slack notifications are enabled
func (s *Service) IsEnabled() bool {
	return s.client != nil
}

// NotifyNewApplication announces a new intake submission
func (s *Service) NotifyNewApplication(ctx context.Context, lead models.Lead) error {
	if !s.IsEnabled() {
		return nil
	}

	text := fmt.Sprintf("🎯 *New Application*\n"+
		"• Name: %s\n"+
		"• Program: %s\n"+
		"• Stage: %s\n"+
		"• Source: %s\n"+
		"• Phone: %s",
		lead.FullName(), lead.ProgramType, lead.ProcessStage, lead.LeadSource, phone.Display(lead.CellPhone))
	if lead.State != "" {
		text += "\n• State: " + lead.State
	}

	return s.client.SendMessage(ctx, Message{Text: text})
}

// NotifyAppointmentBooked announces a booked meeting
func (s *Service) NotifyAppointmentBooked(ctx context.Context, lead models.Lead, appt models.Appointment) error {
	if !s.IsEnabled() {
		return nil
	}

	text := fmt.Sprintf("📅 *Appointment Booked*\n"+
		"• Lead: %s\n"+
		"• Type: %s\n"+
		"• When: %s (%d min)\n"+
		"• Link: %s",
		lead.FullName(), appt.AppointmentType,
		appt.ScheduledAt.In(s.loc).Format("Mon Jan 2, 3:04 PM MST"), appt.DurationMinutes,
		appt.MeetingLink)

	return s.client.SendMessage(ctx, Message{Text: text})
}
