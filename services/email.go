package services

import (
	"fmt"
	"log"

	"venture_claims_go/config"

	"github.com/resend/resend-go/v2"
)

// EmailService handles sending emails via Resend
type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	testMode bool
	appURL   string
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	var client *resend.Client
	if cfg.ResendAPIKey != "" {
		client = resend.NewClient(cfg.ResendAPIKey)
	}
	return &EmailService{
		client:   client,
		from:     cfg.EmailFrom,
		fromName: cfg.EmailFromName,
		testMode: cfg.EmailTestMode,
		appURL:   cfg.AppURL,
	}
}

// IsConfigured reports whether outbound email can actually be sent
func (s *EmailService) IsConfigured() bool {
	return s.client != nil
}

// SendClaimAcknowledgment notifies a sender that their email opened a claim
func (s *EmailService) SendClaimAcknowledgment(to, clientName, claimNumber string) error {
	subject := fmt.Sprintf("Claim %s received", claimNumber)
	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Claim received</h2>
			<p>Hello %s,</p>
			<p>Your request has been registered as claim <strong>%s</strong>.
			Our team will review it and get back to you.</p>
			<p>You can reference this number in any follow-up.</p>
			<p>%s</p>
		</div>`, clientName, claimNumber, s.fromName)

	return s.send(to, subject, html)
}

func (s *EmailService) send(to, subject, html string) error {
	if s.testMode {
		log.Printf("[EMAIL TEST MODE] To: %s | Subject: %s", to, subject)
		log.Printf("[EMAIL TEST MODE] Body:\n%s", html)
		return nil
	}
	if s.client == nil {
		return fmt.Errorf("email service is not configured")
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.fromName, s.from),
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("Email sent to %s (id: %s)", to, sent.Id)
	return nil
}
