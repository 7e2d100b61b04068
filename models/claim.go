package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Claim status values, ordered by workflow progression
const (
	ClaimStatusNew         = "New"
	ClaimStatusScreening   = "Screening"
	ClaimStatusAnalyzing   = "Analyzing"
	ClaimStatusNegotiation = "Negotiation"
	ClaimStatusAccepted    = "Accepted"
	ClaimStatusClosed      = "Closed"
)

// ClaimStatuses lists every valid status in workflow order
var ClaimStatuses = []string{
	ClaimStatusNew,
	ClaimStatusScreening,
	ClaimStatusAnalyzing,
	ClaimStatusNegotiation,
	ClaimStatusAccepted,
	ClaimStatusClosed,
}

// AllowedStatusTransitions is the configurable transition table. The current
// table permits any-to-any jumps, including backward ones; tightening the
// workflow is a data change here, not a code change.
var AllowedStatusTransitions = func() map[string][]string {
	t := make(map[string][]string, len(ClaimStatuses))
	for _, from := range ClaimStatuses {
		t[from] = append([]string(nil), ClaimStatuses...)
	}
	return t
}()

// Claim represents a customer's product complaint under review
type Claim struct {
	ID           string     `gorm:"type:uuid;primarykey;column:id" json:"id"`
	ClaimNumber  string     `gorm:"column:claim_number;not null;index" json:"claimNumber"`
	ClientName   string     `gorm:"column:client_name;not null" json:"clientName"`
	ClientID     string     `gorm:"column:client_id;not null;index" json:"clientId"`
	CreationDate time.Time  `gorm:"column:creation_date;not null;index" json:"creationDate"`
	Status       string     `gorm:"column:status;not null;default:New" json:"status"`
	Department   string     `gorm:"column:department" json:"department"`

	// Cause identified during analysis, if any
	IdentifiedCause  *string    `gorm:"column:identified_cause" json:"identifiedCause,omitempty"`
	Installed        bool       `gorm:"column:installed;not null;default:false" json:"installed"`
	InstallationDate *time.Time `gorm:"column:installation_date" json:"installationDate,omitempty"`
	InvoiceLink      *string    `gorm:"column:invoice_link" json:"invoiceLink,omitempty"`

	// Financials. SavedAmount is derived: it opens at minus the claimed
	// amount and is recomputed as claimed minus solution once financials
	// change.
	SolutionAmount float64 `gorm:"column:solution_amount;not null;default:0" json:"solutionAmount"`
	ClaimedAmount  float64 `gorm:"column:claimed_amount;not null;default:0" json:"claimedAmount"`
	SavedAmount    float64 `gorm:"column:saved_amount;not null;default:0" json:"savedAmount"`

	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	AssignedTo  *string   `gorm:"column:assigned_to" json:"assignedTo,omitempty"`
	LastUpdated time.Time `gorm:"column:last_updated;not null" json:"lastUpdated"`

	// Owned collections, deleted with the claim
	Products       []ClaimProduct       `gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE" json:"products"`
	Documents      []ClaimDocument      `gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE" json:"documents"`
	Communications []ClaimCommunication `gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE" json:"communications,omitempty"`
	Checklists     []ClaimChecklist     `gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE" json:"checklists,omitempty"`
}

// BeforeCreate hook to generate UUID and stamp dates
func (c *Claim) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreationDate.IsZero() {
		c.CreationDate = time.Now()
	}
	if c.LastUpdated.IsZero() {
		c.LastUpdated = c.CreationDate
	}
	if c.Status == "" {
		c.Status = ClaimStatusNew
	}
	return nil
}

// TableName specifies the table name for Claim model
func (Claim) TableName() string {
	return "claims"
}

// RecalculateSavedAmount re-derives the saved amount from the financial fields
func (c *Claim) RecalculateSavedAmount() {
	c.SavedAmount = c.ClaimedAmount - c.SolutionAmount
}

// IsValidClaimStatus checks if the status is valid
func IsValidClaimStatus(status string) bool {
	for _, s := range ClaimStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransition consults the allowed-transition table
func CanTransition(from, to string) bool {
	for _, s := range AllowedStatusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
