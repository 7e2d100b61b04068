package handlers

import (
	"errors"
	"net/http"

	"venture_claims_go/services"

	"github.com/labstack/echo/v4"
)

// ChatHandler serves the assistant endpoint and session management
type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// SendMessage runs one assistant exchange
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return respondError(c, http.StatusBadRequest, "message is required")
	}

	result, err := h.chat.SendMessage(c.Request().Context(), req.Message, req.SessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return respondError(c, http.StatusNotFound, "session not found")
		}
		return respondError(c, http.StatusBadGateway, "assistant request failed")
	}
	return c.JSON(http.StatusOK, result)
}

// ListSessions returns sessions ordered by recent activity
func (h *ChatHandler) ListSessions(c echo.Context) error {
	sessions, err := h.chat.GetSessions(c.Request().Context())
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to load sessions")
	}
	return c.JSON(http.StatusOK, sessions)
}

// SessionMessages returns one session's messages in order
func (h *ChatHandler) SessionMessages(c echo.Context) error {
	messages, err := h.chat.GetSessionMessages(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return respondError(c, http.StatusNotFound, "session not found")
		}
		return respondError(c, http.StatusInternalServerError, "failed to load messages")
	}
	return c.JSON(http.StatusOK, messages)
}

// DeleteSession removes a session and its messages
func (h *ChatHandler) DeleteSession(c echo.Context) error {
	err := h.chat.DeleteSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return respondError(c, http.StatusNotFound, "session not found")
		}
		return respondError(c, http.StatusInternalServerError, "failed to delete session")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
