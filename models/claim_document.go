package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document kinds
const (
	DocumentTypeImage    = "image"
	DocumentTypeDocument = "document"
	DocumentTypeEmail    = "email"
)

// ClaimDocument represents an uploaded file or photo attached to a claim
type ClaimDocument struct {
	ID         string    `gorm:"type:uuid;primarykey;column:id" json:"id"`
	ClaimID    string    `gorm:"type:uuid;column:claim_id;not null;index" json:"claimId"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	Type       string    `gorm:"column:type;not null;default:document" json:"type"`
	URL        string    `gorm:"column:url;not null" json:"url"`
	UploadDate time.Time `gorm:"column:upload_date;not null" json:"uploadDate"`
	Category   string    `gorm:"column:category" json:"category,omitempty"`
	UploadedBy *string   `gorm:"column:uploaded_by" json:"uploadedBy,omitempty"`
}

func (d *ClaimDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.UploadDate.IsZero() {
		d.UploadDate = time.Now()
	}
	return nil
}

func (ClaimDocument) TableName() string {
	return "claim_documents"
}

// IsValidDocumentType checks if the document kind is valid
func IsValidDocumentType(t string) bool {
	return t == DocumentTypeImage || t == DocumentTypeDocument || t == DocumentTypeEmail
}
