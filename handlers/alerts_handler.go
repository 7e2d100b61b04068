package handlers

import (
	"errors"
	"net/http"

	"venture_claims_go/middleware"
	"venture_claims_go/models"
	"venture_claims_go/services"

	"github.com/labstack/echo/v4"
)

// AlertsHandler serves the per-user notification feed
type AlertsHandler struct {
	alerts *services.AlertService
}

func NewAlertsHandler(alerts *services.AlertService) *AlertsHandler {
	return &AlertsHandler{alerts: alerts}
}

func currentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(middleware.UserContextKey).(*models.User)
	return user, ok
}

// List returns the user's alerts, newest first
func (h *AlertsHandler) List(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}
	alerts, err := h.alerts.ListForUser(c.Request().Context(), user.ID)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to load alerts")
	}
	return c.JSON(http.StatusOK, alerts)
}

type markReadRequest struct {
	Read *bool `json:"read,omitempty"`
}

// MarkRead toggles one alert's read flag (defaults to read)
func (h *AlertsHandler) MarkRead(c echo.Context) error {
	var req markReadRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	read := true
	if req.Read != nil {
		read = *req.Read
	}

	err := h.alerts.MarkRead(c.Request().Context(), c.Param("id"), read)
	if err != nil {
		if errors.Is(err, services.ErrAlertNotFound) {
			return respondError(c, http.StatusNotFound, "alert not found")
		}
		return respondError(c, http.StatusInternalServerError, "failed to update alert")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// MarkAllRead clears the unread flag on every alert visible to the user
func (h *AlertsHandler) MarkAllRead(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}
	if err := h.alerts.MarkAllRead(c.Request().Context(), user.ID); err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to update alerts")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
