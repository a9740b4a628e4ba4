package email

import (
	"fmt"
	"html"

	"github.com/lendhub/leaddesk/pkg/domain"
)

const (
	SubjectWelcome  = "Thank You for Your Application - Next Steps"
	SubjectFollowUp = "Let's Get Your Financing Started - Quick Questions"
	SubjectReminder = "Don't Miss Out - Your Investment Financing Awaits"
)

// Message is a rendered email
type Message struct {
	Subject   string
	HTML      string
	PlainText string
}

func welcomeMessage(r domain.Recipient, company, phone string) Message {
	name := html.EscapeString(r.FirstName)
	program := html.EscapeString(r.ProgramType)

	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Welcome to %s</h2>
			<p>Hi %s,</p>
			<p>Thank you for submitting your application for <strong>%s</strong> financing. We're excited to help you achieve your investment goals!</p>
			<h3>What Happens Next?</h3>
			<ol>
				<li>Our team will review your application within 24-48 hours</li>
				<li>We'll contact you via phone or email to discuss your specific needs</li>
				<li>You'll receive a personalized loan proposal tailored to your project</li>
				<li>Once approved, we'll guide you through the closing process</li>
			</ol>
			<p>Have questions? Reply to this email or call us at %s.</p>
			<p>This email was sent to %s</p>
		</body>
		</html>
	`, html.EscapeString(company), name, program, html.EscapeString(phone), html.EscapeString(r.Email))

	plainText := fmt.Sprintf(`
Hi %s,

Thank you for submitting your application for %s financing.

What happens next:
1. Our team will review your application within 24-48 hours
2. We'll contact you via phone or email to discuss your specific needs
3. You'll receive a personalized loan proposal tailored to your project
4. Once approved, we'll guide you through the closing process

Have questions? Reply to this email or call us at %s.

The %s Team
	`, r.FirstName, r.ProgramType, phone, company)

	return Message{Subject: SubjectWelcome, HTML: body, PlainText: plainText}
}

func followUpMessage(r domain.Recipient, company, phone string) Message {
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Let's Move Forward Together</h2>
			<p>Hi %s,</p>
			<p>Thanks again for your interest in our <strong>%s</strong> program. I wanted to personally follow up and see if you have any questions.</p>
			<h3>Ready to Take the Next Step?</h3>
			<ul>
				<li>Review your specific project details</li>
				<li>Provide a customized loan structure</li>
				<li>Answer any questions about rates and terms</li>
				<li>Help you identify the best program for your needs</li>
			</ul>
			<p>Borrowers who schedule a consultation within 7 days typically close 40%% faster!</p>
			<p>Best regards,<br><strong>The %s Team</strong><br>%s</p>
			<p>This email was sent to %s</p>
		</body>
		</html>
	`, html.EscapeString(r.FirstName), html.EscapeString(r.ProgramType), html.EscapeString(company), html.EscapeString(phone), html.EscapeString(r.Email))

	plainText := fmt.Sprintf(`
Hi %s,

Thanks again for your interest in our %s program. I wanted to personally follow up and see if you have any questions.

We can review your project details, provide a customized loan structure and answer any questions about rates and terms.

Best regards,
The %s Team
%s
	`, r.FirstName, r.ProgramType, company, phone)

	return Message{Subject: SubjectFollowUp, HTML: body, PlainText: plainText}
}

func reminderMessage(r domain.Recipient, company, phone string) Message {
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>We're Still Here to Help!</h2>
			<p>Hi %s,</p>
			<p>I noticed you haven't completed your application for <strong>%s</strong> financing yet. I wanted to reach out one more time because I'd hate for you to miss out on this opportunity.</p>
			<p>Real estate markets move fast. Our streamlined process can get you pre-approved quickly.</p>
			<ul>
				<li><strong>Fast Approvals:</strong> Get pre-approved in 24-48 hours</li>
				<li><strong>Flexible Terms:</strong> Customized solutions for every investor</li>
				<li><strong>Expert Guidance:</strong> Dedicated support throughout the process</li>
			</ul>
			<p>Call us directly at %s to speak with a loan specialist.</p>
			<p>Best regards,<br><strong>The %s Team</strong></p>
			<p>This email was sent to %s</p>
		</body>
		</html>
	`, html.EscapeString(r.FirstName), html.EscapeString(r.ProgramType), html.EscapeString(phone), html.EscapeString(company), html.EscapeString(r.Email))

	plainText := fmt.Sprintf(`
Hi %s,

I noticed you haven't completed your application for %s financing yet. Real estate markets move fast and we can get you pre-approved in 24-48 hours.

Call us directly at %s to speak with a loan specialist.

Best regards,
The %s Team
	`, r.FirstName, r.ProgramType, phone, company)

	return Message{Subject: SubjectReminder, HTML: body, PlainText: plainText}
}
