package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert severities
const (
	AlertTypeWarning = "warning"
	AlertTypeInfo    = "info"
	AlertTypeError   = "error"
)

// Alert is a per-user notification, optionally tied to a claim.
// Mutated only by read/unread toggles.
type Alert struct {
	ID          string    `gorm:"type:uuid;primarykey;column:id" json:"id"`
	UserID      *string   `gorm:"column:user_id;index" json:"userId,omitempty"`
	ClaimID     *string   `gorm:"type:uuid;column:claim_id" json:"claimId,omitempty"`
	ClaimNumber *string   `gorm:"column:claim_number" json:"claimNumber,omitempty"`
	Message     string    `gorm:"column:message;type:text;not null" json:"message"`
	Type        string    `gorm:"column:type;not null;default:info" json:"type"`
	Read        bool      `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Type == "" {
		a.Type = AlertTypeInfo
	}
	return nil
}

func (Alert) TableName() string {
	return "alerts"
}

// IsValidAlertType checks if the severity is valid
func IsValidAlertType(t string) bool {
	return t == AlertTypeWarning || t == AlertTypeInfo || t == AlertTypeError
}
