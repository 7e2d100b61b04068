package handlers

import (
	"errors"
	"net/http"
	"time"

	"venture_claims_go/middleware"
	"venture_claims_go/models"
	"venture_claims_go/services"

	"github.com/labstack/echo/v4"
)

// AuthHandler serves login, logout and the current-user endpoint
type AuthHandler struct {
	auth   *services.AuthService
	secure bool
}

func NewAuthHandler(auth *services.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, secure: secureCookies}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates credentials and issues a session cookie
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "email and password are required")
	}

	user, err := h.auth.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrUserInactive) {
			return respondError(c, http.StatusUnauthorized, "invalid email or password")
		}
		return respondError(c, http.StatusInternalServerError, "login failed")
	}

	session, err := h.auth.CreateSession(c.Request().Context(), user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to create session")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// Logout invalidates the current session
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if delErr := h.auth.DeleteSession(c.Request().Context(), cookie.Value); delErr != nil {
			return respondError(c, http.StatusInternalServerError, "failed to log out")
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := c.Get(middleware.UserContextKey).(*models.User)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(http.StatusOK, user)
}
