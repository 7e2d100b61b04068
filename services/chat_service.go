package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"venture_claims_go/models"

	"gorm.io/gorm"
)

const (
	chatHistoryLimit    = 5
	retrievalLimit      = 5
	retrievalThreshold  = 0.5
	defaultChatContext  = "General knowledge about claims management for Venture Claims Management."
	systemPromptPreface = "You are an assistant specialized in customer claims management for Venture Claims Management. " +
		"Answer using the context below. If the context does not cover the question, say so politely instead of inventing details."
)

// ErrSessionNotFound is returned when a chat session id resolves to nothing
var ErrSessionNotFound = errors.New("chat session not found")

// ChatResult is the outcome of one assistant exchange
type ChatResult struct {
	Response     string              `json:"response"`
	SessionID    string              `json:"sessionId"`
	RelevantDocs []RetrievedDocument `json:"relevantDocs,omitempty"`
}

// ChatService orchestrates the assistant pipeline: session bookkeeping,
// retrieval over the document index, and model completion.
type ChatService struct {
	db    *gorm.DB
	llm   CompletionClient
	index *DocumentIndex
}

func NewChatService(db *gorm.DB, llm CompletionClient, index *DocumentIndex) *ChatService {
	return &ChatService{db: db, llm: llm, index: index}
}

// SendMessage runs one exchange. When sessionID is empty a new session is
// created, titled from the message. The user message is persisted before the
// model is called, so a failed exchange still leaves the question in history.
func (s *ChatService) SendMessage(ctx context.Context, message, sessionID string) (*ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}
	if s.llm == nil {
		return nil, fmt.Errorf("chat assistant is not configured")
	}

	session, err := s.resolveSession(ctx, sessionID, message)
	if err != nil {
		return nil, err
	}

	history, err := s.recentHistory(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	userMsg := models.ChatMessage{
		SessionID: session.ID,
		Role:      models.ChatRoleUser,
		Content:   message,
	}
	if err := s.db.WithContext(ctx).Create(&userMsg).Error; err != nil {
		return nil, fmt.Errorf("failed to record message: %w", err)
	}

	embedding, err := s.llm.CreateEmbedding(ctx, message)
	if err != nil {
		return nil, err
	}

	// Retrieval failures degrade to the default context; the exchange
	// continues without grounding.
	docs, err := s.index.Query(ctx, embedding, retrievalLimit, retrievalThreshold)
	if err != nil {
		log.Printf("[WARNING] Document retrieval failed: %v", err)
		docs = nil
	}

	turns := buildTurns(docs, history, message)
	reply, err := s.llm.Complete(ctx, turns)
	if err != nil {
		return nil, err
	}

	assistantMsg := models.ChatMessage{
		SessionID: session.ID,
		Role:      models.ChatRoleAssistant,
		Content:   reply,
	}
	if err := s.db.WithContext(ctx).Create(&assistantMsg).Error; err != nil {
		return nil, fmt.Errorf("failed to record response: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.ChatSession{}).
		Where("id = ?", session.ID).
		UpdateColumn("updated_at", time.Now()).Error; err != nil {
		log.Printf("[WARNING] Failed to bump session %s: %v", session.ID, err)
	}

	return &ChatResult{
		Response:     reply,
		SessionID:    session.ID,
		RelevantDocs: docs,
	}, nil
}

// GetSessions lists sessions most recently active first
func (s *ChatService) GetSessions(ctx context.Context) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := s.db.WithContext(ctx).
		Order("updated_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	return sessions, nil
}

// GetSessionMessages returns a session's messages in chronological order
func (s *ChatService) GetSessionMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return nil, err
	}
	var messages []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return messages, nil
}

// DeleteSession removes a session and everything it owns. Messages go first
// so a partial failure never leaves orphans pointing at a live session.
func (s *ChatService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ChatMessage{}, "session_id = ?", sessionID).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		if err := tx.Delete(&models.ChatSession{}, "id = ?", sessionID).Error; err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
}

func (s *ChatService) resolveSession(ctx context.Context, sessionID, firstMessage string) (*models.ChatSession, error) {
	if sessionID == "" {
		session := models.ChatSession{Title: models.DeriveSessionTitle(firstMessage)}
		if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		return &session, nil
	}

	var session models.ChatSession
	if err := s.db.WithContext(ctx).First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

func (s *ChatService) ensureSession(ctx context.Context, sessionID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ChatSession{}).Where("id = ?", sessionID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if count == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// recentHistory returns the last few exchanges before the current message,
// oldest first.
func (s *ChatService) recentHistory(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	var recent []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp DESC").
		Limit(chatHistoryLimit).
		Find(&recent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

func buildTurns(docs []RetrievedDocument, history []models.ChatMessage, message string) []ChatTurn {
	contextBlock := defaultChatContext
	if len(docs) > 0 {
		parts := make([]string, 0, len(docs))
		for _, d := range docs {
			parts = append(parts, d.Content)
		}
		contextBlock = strings.Join(parts, "\n\n")
	}

	turns := make([]ChatTurn, 0, len(history)+2)
	turns = append(turns, ChatTurn{
		Role:    "system",
		Content: fmt.Sprintf("%s\n\nContext:\n%s", systemPromptPreface, contextBlock),
	})
	for _, m := range history {
		turns = append(turns, ChatTurn{Role: m.Role, Content: m.Content})
	}
	turns = append(turns, ChatTurn{Role: models.ChatRoleUser, Content: message})
	return turns
}
