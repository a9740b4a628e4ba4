package email

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/lendhub/leaddesk/pkg/domain"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers a prepared SendGrid message and reports the HTTP status
type Sender interface {
	Send(ctx context.Context, msg *mail.SGMailV3) (status int, body string, err error)
}

type sendGridSender struct {
	client *sendgrid.Client
}

func (s *sendGridSender) Send(ctx context.Context, msg *mail.SGMailV3) (int, string, error) {
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, resp.Body, nil
}

// Service handles lead emails
type Service struct {
	fromEmail    string
	fromName     string
	supportPhone string
	sender       Sender
	useSendGrid  bool
}

// NewService creates a new email service
// If sendGridAPIKey is provided, emails will be sent via SendGrid
// Otherwise, emails will be logged to console (development mode)
func NewService(fromEmail, fromName, supportPhone, sendGridAPIKey string) *Service {
	var sender Sender
	if sendGridAPIKey != "" {
		sender = &sendGridSender{client: sendgrid.NewSendClient(sendGridAPIKey)}
		log.Printf("✅ Email service initialized with SendGrid")
	} else {
		log.Printf("⚠️  Email service in console-only mode (set SENDGRID_API_KEY for production)")
	}
	return NewServiceWithSender(fromEmail, fromName, supportPhone, sender)
}

// NewServiceWithSender creates a service using a custom sender. A nil
// sender means console mode.
func NewServiceWithSender(fromEmail, fromName, supportPhone string, sender Sender) *Service {
	return &Service{
		fromEmail:    fromEmail,
		fromName:     fromName,
		supportPhone: supportPhone,
		sender:       sender,
		useSendGrid:  sender != nil,
	}
}

// SendWelcome sends the application confirmation
func (s *Service) SendWelcome(ctx context.Context, r domain.Recipient) error {
	return s.deliver(ctx, r, welcomeMessage(r, s.fromName, s.supportPhone))
}

// SendFollowUp sends the staff-triggered follow-up
func (s *Service) SendFollowUp(ctx context.Context, r domain.Recipient) error {
	return s.deliver(ctx, r, followUpMessage(r, s.fromName, s.supportPhone))
}

// SendReminder nudges a lead that has not progressed
func (s *Service) SendReminder(ctx context.Context, r domain.Recipient) error {
	return s.deliver(ctx, r, reminderMessage(r, s.fromName, s.supportPhone))
}

func (s *Service) deliver(ctx context.Context, r domain.Recipient, m Message) error {
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("recipient email is required")
	}

	toName := strings.TrimSpace(r.FirstName + " " + r.LastName)

	if s.useSendGrid {
		return s.sendViaSendGrid(ctx, r.Email, toName, m)
	}

	// Development mode: log to console
	s.logEmailToConsole(r.Email, toName, m.Subject, r.LeadID)
	return nil
}

// sendViaSendGrid sends email using SendGrid API
func (s *Service) sendViaSendGrid(ctx context.Context, toEmail, toName string, m Message) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)

	message := mail.NewSingleEmail(from, m.Subject, to, m.PlainText, m.HTML)

	status, body, err := s.sender.Send(ctx, message)
	if err != nil {
		log.Printf("❌ SendGrid error: %v", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	if status >= 400 {
		log.Printf("❌ SendGrid returned error status %d: %s", status, body)
		return fmt.Errorf("sendgrid returned error status: %d", status)
	}

	log.Printf("✅ Email sent successfully to %s (SendGrid status: %d)", toEmail, status)
	return nil
}

// logEmailToConsole logs email details to console (development mode)
func (s *Service) logEmailToConsole(toEmail, toName, subject, leadID string) {
	log.Printf("📧 [EMAIL] %s", subject)
	log.Printf("   To: %s <%s>", toName, toEmail)
	log.Printf("   From: %s <%s>", s.fromName, s.fromEmail)
	if leadID != "" {
		log.Printf("   Lead: %s", leadID)
	}
	log.Printf("   ⚠️  Email NOT sent (development mode)")
}
