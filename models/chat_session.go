package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatTitleMaxLength is the cutoff for session titles derived from the
// first user message
const ChatTitleMaxLength = 30

// ChatSession is a named, ordered sequence of chat exchanges
type ChatSession struct {
	ID        string    `gorm:"type:uuid;primarykey;column:id" json:"id"`
	UserID    *string   `gorm:"column:user_id;index" json:"userId,omitempty"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`

	// Lazily loaded; empty in session listings
	Messages []ChatMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// DeriveSessionTitle builds a session title from the first user message,
// truncated to 30 characters plus an ellipsis when longer
func DeriveSessionTitle(message string) string {
	runes := []rune(message)
	if len(runes) > ChatTitleMaxLength {
		return string(runes[:ChatTitleMaxLength]) + "..."
	}
	return message
}
