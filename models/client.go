package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a customer on whose behalf claims are filed. The claim's
// client reference is free text in this layer; this table backs email
// intake and spreadsheet import, which resolve clients by email.
type Client struct {
	ID         string    `gorm:"type:uuid;primarykey;column:id" json:"id"`
	ClientCode string    `gorm:"column:client_code;not null;uniqueIndex" json:"clientCode"`
	ClientName string    `gorm:"column:client_name;not null" json:"clientName"`
	Email      string    `gorm:"column:email;index" json:"email"`
	Phone      *string   `gorm:"column:phone" json:"phone,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (Client) TableName() string {
	return "clients"
}
