package services

import (
	"context"
	"errors"
	"fmt"

	"venture_claims_go/models"

	"gorm.io/gorm"
)

// ErrAlertNotFound is returned when an alert id resolves to nothing
var ErrAlertNotFound = errors.New("alert not found")

// AlertService manages per-user notifications
type AlertService struct {
	db *gorm.DB
}

func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{db: db}
}

// Create persists a new alert
func (s *AlertService) Create(ctx context.Context, alert *models.Alert) error {
	if alert.Message == "" {
		return fmt.Errorf("alert message is required")
	}
	if alert.Type != "" && !models.IsValidAlertType(alert.Type) {
		return fmt.Errorf("invalid alert type: %s", alert.Type)
	}
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// ListForUser returns a user's alerts plus unaddressed ones, newest first
func (s *AlertService) ListForUser(ctx context.Context, userID string) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.WithContext(ctx).
		Where("user_id = ? OR user_id IS NULL", userID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	return alerts, nil
}

// MarkRead toggles a single alert's read flag
func (s *AlertService) MarkRead(ctx context.Context, id string, read bool) error {
	result := s.db.WithContext(ctx).Model(&models.Alert{}).
		Where("id = ?", id).
		UpdateColumn("read", read)
	if result.Error != nil {
		return fmt.Errorf("failed to update alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// MarkAllRead marks every unread alert visible to the user as read
func (s *AlertService) MarkAllRead(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Model(&models.Alert{}).
		Where("(user_id = ? OR user_id IS NULL) AND read = ?", userID, false).
		UpdateColumn("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to update alerts: %w", err)
	}
	return nil
}
