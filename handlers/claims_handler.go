package handlers

import (
	"errors"
	"net/http"
	"strings"

	"venture_claims_go/middleware"
	"venture_claims_go/models"
	"venture_claims_go/services"
	"venture_claims_go/store"

	"github.com/labstack/echo/v4"
)

// ClaimsHandler serves the claims REST surface on top of the aggregate
type ClaimsHandler struct {
	claims *services.ClaimsAggregate
}

func NewClaimsHandler(claims *services.ClaimsAggregate) *ClaimsHandler {
	return &ClaimsHandler{claims: claims}
}

// List returns every claim, newest first
func (h *ClaimsHandler) List(c echo.Context) error {
	if err := h.claims.Refresh(c.Request().Context()); err != nil {
		return respondError(c, http.StatusInternalServerError, "failed to load claims")
	}
	return c.JSON(http.StatusOK, h.claims.Claims())
}

// Get returns one claim with its nested collections
func (h *ClaimsHandler) Get(c echo.Context) error {
	claim, err := h.claims.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "claim not found")
		}
		return respondError(c, http.StatusInternalServerError, "failed to load claim")
	}
	return c.JSON(http.StatusOK, claim)
}

// Create opens a new claim
func (h *ClaimsHandler) Create(c echo.Context) error {
	var claim models.Claim
	if err := c.Bind(&claim); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if claim.Status != "" && !models.IsValidClaimStatus(claim.Status) {
		return respondError(c, http.StatusBadRequest, "invalid status")
	}

	id, err := h.claims.Add(c.Request().Context(), &claim)
	if err != nil {
		if errors.Is(err, store.ErrRemoteWrite) {
			return respondError(c, http.StatusBadGateway, "record store write failed")
		}
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	created, err := h.claims.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "claim created but could not be reloaded")
	}
	return c.JSON(http.StatusCreated, created)
}

// Update applies a partial update, enforcing the status transition table
func (h *ClaimsHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var update store.ClaimUpdate
	if err := c.Bind(&update); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	if update.Status != nil {
		if !models.IsValidClaimStatus(*update.Status) {
			return respondError(c, http.StatusBadRequest, "invalid status")
		}
		current, err := h.claims.Get(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return respondError(c, http.StatusNotFound, "claim not found")
			}
			return respondError(c, http.StatusInternalServerError, "failed to load claim")
		}
		if !models.CanTransition(current.Status, *update.Status) {
			return respondError(c, http.StatusBadRequest, "status transition not allowed")
		}
	}

	if err := h.claims.Update(c.Request().Context(), id, update); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return respondError(c, http.StatusNotFound, "claim not found")
		case errors.Is(err, store.ErrRemoteWrite):
			return respondError(c, http.StatusBadGateway, "record store write failed")
		default:
			return respondError(c, http.StatusInternalServerError, "failed to update claim")
		}
	}

	claim, err := h.claims.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "claim updated but could not be reloaded")
	}
	return c.JSON(http.StatusOK, claim)
}

// Delete removes a claim and everything it owns
func (h *ClaimsHandler) Delete(c echo.Context) error {
	err := h.claims.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return respondError(c, http.StatusNotFound, "claim not found")
		case errors.Is(err, store.ErrRemoteWrite):
			return respondError(c, http.StatusBadGateway, "record store write failed")
		default:
			return respondError(c, http.StatusInternalServerError, "failed to delete claim")
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// Search matches claims against a free-text term
func (h *ClaimsHandler) Search(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("q"))
	if term == "" {
		return respondError(c, http.StatusBadRequest, "query parameter q is required")
	}
	claims, err := h.claims.Search(c.Request().Context(), term)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, claims)
}

// Totals returns the financial reductions over the claim list
func (h *ClaimsHandler) Totals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.claims.CalculateTotals())
}

// UploadDocument attaches an uploaded file to a claim
func (h *ClaimsHandler) UploadDocument(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "file is required")
	}
	category := c.FormValue("category")
	if category == "" {
		category = "General"
	}

	var uploadedBy *string
	if user, ok := c.Get(middleware.UserContextKey).(*models.User); ok {
		uploadedBy = &user.FullName
	}

	doc, err := h.claims.UploadDocument(c.Request().Context(), c.Param("id"), file, category, uploadedBy)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return respondError(c, http.StatusNotFound, "claim not found")
		case errors.Is(err, store.ErrRemoteWrite):
			return respondError(c, http.StatusBadGateway, "record store write failed")
		default:
			return respondError(c, http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, doc)
}

// AddCommunication appends to a claim's communication log
func (h *ClaimsHandler) AddCommunication(c echo.Context) error {
	var req struct {
		Type       string   `json:"type"`
		Subject    *string  `json:"subject,omitempty"`
		Content    string   `json:"content"`
		Sender     string   `json:"sender"`
		Recipients []string `json:"recipients,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Content == "" {
		return respondError(c, http.StatusBadRequest, "content is required")
	}
	if req.Type == "" {
		req.Type = models.CommunicationTypeNote
	}
	if !models.IsValidCommunicationType(req.Type) {
		return respondError(c, http.StatusBadRequest, "invalid communication type")
	}

	comm := models.ClaimCommunication{
		Type:    req.Type,
		Subject: req.Subject,
		Content: req.Content,
		Sender:  req.Sender,
	}
	comm.SetRecipients(req.Recipients)

	err := h.claims.AddCommunication(c.Request().Context(), c.Param("id"), &comm)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return respondError(c, http.StatusNotFound, "claim not found")
		case errors.Is(err, store.ErrRemoteWrite):
			return respondError(c, http.StatusBadGateway, "record store write failed")
		default:
			return respondError(c, http.StatusInternalServerError, "failed to add communication")
		}
	}
	return c.JSON(http.StatusCreated, comm)
}
