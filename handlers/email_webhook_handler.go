package handlers

import (
	"net/http"

	"venture_claims_go/services"

	"github.com/labstack/echo/v4"
)

// EmailWebhookHandler receives inbound email notifications from the mail
// gateway and routes flagged ones into claim intake.
type EmailWebhookHandler struct {
	intake *services.EmailIntakeService
}

func NewEmailWebhookHandler(intake *services.EmailIntakeService) *EmailWebhookHandler {
	return &EmailWebhookHandler{intake: intake}
}

// Receive processes one inbound email payload
func (h *EmailWebhookHandler) Receive(c echo.Context) error {
	var email services.InboundEmail
	if err := c.Bind(&email); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid webhook payload")
	}
	if email.Sender == "" {
		return respondError(c, http.StatusBadRequest, "sender is required")
	}

	result, err := h.intake.ProcessEmail(c.Request().Context(), email)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to process email")
	}
	return c.JSON(http.StatusOK, result)
}
