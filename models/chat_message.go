package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat message roles
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one side of a chat exchange, exclusively owned by its
// session. Messages are append-only.
type ChatMessage struct {
	ID        string    `gorm:"type:uuid;primarykey;column:id" json:"id"`
	SessionID string    `gorm:"type:uuid;column:session_id;not null;index" json:"sessionId"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	Role      string    `gorm:"column:role;not null" json:"role"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return nil
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
