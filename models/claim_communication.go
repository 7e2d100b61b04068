package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Communication kinds
const (
	CommunicationTypeEmail   = "email"
	CommunicationTypeCall    = "call"
	CommunicationTypeMeeting = "meeting"
	CommunicationTypeNote    = "note"
)

// ClaimCommunication is one entry in a claim's append-only history of
// notes, emails, calls and meetings. Entries are never edited.
type ClaimCommunication struct {
	ID      string    `gorm:"type:uuid;primarykey;column:id" json:"id"`
	ClaimID string    `gorm:"type:uuid;column:claim_id;not null;index" json:"claimId"`
	Date    time.Time `gorm:"column:date;not null" json:"date"`
	Type    string    `gorm:"column:type;not null" json:"type"`
	Subject *string   `gorm:"column:subject" json:"subject,omitempty"`
	Content string    `gorm:"column:content;type:text;not null" json:"content"`
	Sender  string    `gorm:"column:sender" json:"sender"`
	// Recipients stored as a JSON array in one column
	RecipientsJSON string `gorm:"column:recipients" json:"-"`
}

func (c *ClaimCommunication) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Date.IsZero() {
		c.Date = time.Now()
	}
	return nil
}

func (ClaimCommunication) TableName() string {
	return "claim_communications"
}

// Recipients decodes the stored recipient list
func (c *ClaimCommunication) Recipients() []string {
	if c.RecipientsJSON == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(c.RecipientsJSON), &out); err != nil {
		return nil
	}
	return out
}

// SetRecipients encodes the recipient list for storage
func (c *ClaimCommunication) SetRecipients(recipients []string) {
	if len(recipients) == 0 {
		c.RecipientsJSON = ""
		return
	}
	data, err := json.Marshal(recipients)
	if err != nil {
		return
	}
	c.RecipientsJSON = string(data)
}

// MarshalJSON exposes the decoded recipient list under "recipients"
func (c ClaimCommunication) MarshalJSON() ([]byte, error) {
	type alias ClaimCommunication
	return json.Marshal(struct {
		alias
		Recipients []string `json:"recipients,omitempty"`
	}{alias(c), c.Recipients()})
}

// IsValidCommunicationType checks if the communication kind is valid
func IsValidCommunicationType(t string) bool {
	switch t {
	case CommunicationTypeEmail, CommunicationTypeCall, CommunicationTypeMeeting, CommunicationTypeNote:
		return true
	}
	return false
}
