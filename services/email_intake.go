package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"venture_claims_go/models"
	"venture_claims_go/store"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const (
	// ClaimSubjectMarker flags an inbound email as a claim request
	ClaimSubjectMarker = "[Claim]"

	// intakeDepartment is the department new email claims land in
	intakeDepartment = "Customer Service"

	// intakeAttachmentCategory tags documents created from email attachments
	intakeAttachmentCategory = "Email Attachment"

	// descriptionMaxLength caps the claim description built from the body
	descriptionMaxLength = 500
)

var addressPattern = regexp.MustCompile(`<([^>]+)>`)

// InboundEmail is the webhook payload for a received email
type InboundEmail struct {
	Subject        string            `json:"subject"`
	Body           string            `json:"body"`
	Sender         string            `json:"sender"`
	Recipients     []string          `json:"recipients,omitempty"`
	ReceivedTime   time.Time         `json:"receivedTime"`
	HasAttachments bool              `json:"hasAttachments"`
	Attachments    []EmailAttachment `json:"attachments,omitempty"`
}

// EmailAttachment describes one attachment already persisted by the mail
// gateway and referenced by URL.
type EmailAttachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	ContentURL  string `json:"contentUrl"`
}

// IntakeResult reports the outcome of processing one inbound email
type IntakeResult struct {
	Success     bool   `json:"success"`
	ClaimID     string `json:"claimId,omitempty"`
	ClaimNumber string `json:"claimNumber,omitempty"`
	Message     string `json:"message"`
}

// EmailIntakeService turns flagged inbound emails into claims
type EmailIntakeService struct {
	db        *gorm.DB
	claims    store.ClaimStore
	alerts    *AlertService
	email     *EmailService
	sanitizer *bluemonday.Policy
	// DefaultAssignee, when set, is stamped on intake claims and receives
	// the new-claim alert.
	DefaultAssignee *string
}

func NewEmailIntakeService(db *gorm.DB, claims store.ClaimStore, alerts *AlertService, email *EmailService) *EmailIntakeService {
	return &EmailIntakeService{
		db:        db,
		claims:    claims,
		alerts:    alerts,
		email:     email,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// ProcessEmail creates a claim from an inbound email when the subject carries
// the claim marker. Emails without the marker are acknowledged but ignored.
func (s *EmailIntakeService) ProcessEmail(ctx context.Context, email InboundEmail) (*IntakeResult, error) {
	if !strings.Contains(email.Subject, ClaimSubjectMarker) {
		return &IntakeResult{
			Success: false,
			Message: fmt.Sprintf("Subject does not contain the %s marker; email ignored", ClaimSubjectMarker),
		}, nil
	}

	senderName, senderEmail := parseSender(email.Sender)
	client, err := s.resolveClient(ctx, senderName, senderEmail)
	if err != nil {
		return nil, err
	}

	claim := models.Claim{
		ClientName:  client.ClientName,
		ClientID:    client.ClientCode,
		Status:      models.ClaimStatusNew,
		Department:  intakeDepartment,
		Description: strPtrOrNil(s.buildDescription(email.Body)),
		AssignedTo:  s.DefaultAssignee,
	}
	if !email.ReceivedTime.IsZero() {
		claim.CreationDate = email.ReceivedTime
	}

	claimID, err := s.claims.Create(ctx, &claim)
	if err != nil {
		return nil, fmt.Errorf("failed to create claim from email: %w", err)
	}

	comm := models.ClaimCommunication{
		Type:    models.CommunicationTypeEmail,
		Date:    claim.CreationDate,
		Subject: strPtrOrNil(email.Subject),
		Content: email.Body,
		Sender:  email.Sender,
	}
	comm.SetRecipients(email.Recipients)
	if err := s.claims.AddCommunication(ctx, claimID, &comm); err != nil {
		log.Printf("[WARNING] Failed to record intake email on claim %s: %v", claimID, err)
	}

	for _, att := range email.Attachments {
		doc := models.ClaimDocument{
			Name:     att.Name,
			Type:     attachmentDocumentType(att),
			URL:      att.ContentURL,
			Category: intakeAttachmentCategory,
		}
		if err := s.claims.AddDocument(ctx, claimID, &doc); err != nil {
			log.Printf("[WARNING] Failed to attach %s to claim %s: %v", att.Name, claimID, err)
		}
	}

	if s.DefaultAssignee != nil && s.alerts != nil {
		alert := models.Alert{
			UserID:      s.DefaultAssignee,
			ClaimID:     &claimID,
			ClaimNumber: &claim.ClaimNumber,
			Message:     fmt.Sprintf("New claim %s created from email by %s", claim.ClaimNumber, client.ClientName),
			Type:        models.AlertTypeInfo,
		}
		if err := s.alerts.Create(ctx, &alert); err != nil {
			log.Printf("[WARNING] Failed to create intake alert for claim %s: %v", claimID, err)
		}
	}

	if s.email != nil && senderEmail != "" {
		if err := s.email.SendClaimAcknowledgment(senderEmail, client.ClientName, claim.ClaimNumber); err != nil {
			log.Printf("[WARNING] Failed to acknowledge claim %s to %s: %v", claim.ClaimNumber, senderEmail, err)
		}
	}

	return &IntakeResult{
		Success:     true,
		ClaimID:     claimID,
		ClaimNumber: claim.ClaimNumber,
		Message:     fmt.Sprintf("Claim %s created successfully", claim.ClaimNumber),
	}, nil
}

// resolveClient finds the client by sender email or registers a new one with
// a generated client code.
func (s *EmailIntakeService) resolveClient(ctx context.Context, name, email string) (*models.Client, error) {
	if email != "" {
		var existing models.Client
		err := s.db.WithContext(ctx).First(&existing, "email = ?", email).Error
		if err == nil {
			return &existing, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("failed to look up client: %w", err)
		}
	}

	if name == "" {
		name = email
	}
	if name == "" {
		name = "Unknown Sender"
	}
	client := models.Client{
		ClientCode: GenerateClientCode(),
		ClientName: name,
		Email:      email,
	}
	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, fmt.Errorf("failed to register client: %w", err)
	}
	return &client, nil
}

// buildDescription strips markup from the email body and truncates the result
func (s *EmailIntakeService) buildDescription(body string) string {
	clean := s.sanitizer.Sanitize(body)
	clean = strings.Join(strings.Fields(clean), " ")
	runes := []rune(clean)
	if len(runes) > descriptionMaxLength {
		clean = string(runes[:descriptionMaxLength])
	}
	return clean
}

// GenerateClientCode produces a code in the form C1234
func GenerateClientCode() string {
	return fmt.Sprintf("C%04d", rand.Intn(9000)+1000)
}

// parseSender splits "Name <addr@host>" into its parts. A bare address is
// returned as both name and email.
func parseSender(sender string) (name, email string) {
	sender = strings.TrimSpace(sender)
	if m := addressPattern.FindStringSubmatch(sender); m != nil {
		email = strings.TrimSpace(m[1])
		name = strings.Trim(strings.TrimSpace(strings.Split(sender, "<")[0]), `"`)
		if name == "" {
			name = email
		}
		return name, email
	}
	if strings.Contains(sender, "@") {
		return sender, sender
	}
	return sender, ""
}

func attachmentDocumentType(att EmailAttachment) string {
	if strings.HasPrefix(att.ContentType, "image/") {
		return models.DocumentTypeImage
	}
	return DocumentTypeForFilename(att.Name)
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
