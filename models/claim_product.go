package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimProduct is a line item on a claim. TotalPrice is set to
// quantity x unit price at creation and is not recomputed on edit.
type ClaimProduct struct {
	ID          string `gorm:"type:uuid;primarykey;column:id" json:"id"`
	ClaimID     string `gorm:"type:uuid;column:claim_id;not null;index" json:"claimId"`
	Description string `gorm:"column:description;not null" json:"description"`
	Style       string `gorm:"column:style" json:"style"`
	Color       string `gorm:"column:color" json:"color"`
	// Original ordered quantity; ClaimedQuantity should not exceed it
	Quantity        float64 `gorm:"column:quantity;not null;default:0" json:"quantity"`
	ClaimedQuantity float64 `gorm:"column:claimed_quantity;not null;default:0" json:"claimedQuantity"`
	PricePerSY      float64 `gorm:"column:price_per_sy;not null;default:0" json:"pricePerSY"`
	TotalPrice      float64 `gorm:"column:total_price;not null;default:0" json:"totalPrice"`
}

func (p *ClaimProduct) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.TotalPrice == 0 && p.Quantity > 0 && p.PricePerSY > 0 {
		p.TotalPrice = p.Quantity * p.PricePerSY
	}
	return nil
}

func (ClaimProduct) TableName() string {
	return "claim_products"
}
