package models

import (
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimChecklist groups checklist items under a type label,
// e.g. "Manufacturing Defect"
type ClaimChecklist struct {
	ID      string               `gorm:"type:uuid;primarykey;column:id" json:"id"`
	ClaimID string               `gorm:"type:uuid;column:claim_id;not null;index" json:"claimId"`
	Type    string               `gorm:"column:type;not null" json:"type"`
	Items   []ClaimChecklistItem `gorm:"foreignKey:ChecklistID;constraint:OnDelete:CASCADE" json:"items"`
}

func (c *ClaimChecklist) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (ClaimChecklist) TableName() string {
	return "claim_checklists"
}

// Progress returns the rounded completion percentage
func (c *ClaimChecklist) Progress() int {
	if len(c.Items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range c.Items {
		if item.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(c.Items)) * 100))
}

// ClaimChecklistItem is one entry on a typed completion form
type ClaimChecklistItem struct {
	ID          string  `gorm:"type:uuid;primarykey;column:id" json:"id"`
	ChecklistID string  `gorm:"type:uuid;column:checklist_id;not null;index" json:"checklistId"`
	Title       string  `gorm:"column:title;not null" json:"title"`
	Completed   bool    `gorm:"column:completed;not null;default:false" json:"completed"`
	Notes       *string `gorm:"column:notes;type:text" json:"notes,omitempty"`
}

func (i *ClaimChecklistItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

func (ClaimChecklistItem) TableName() string {
	return "claim_checklist_items"
}
