// Package store provides the claim record store: a single ClaimStore
// interface with two interchangeable implementations selected at
// construction time. RemoteStore talks to the managed Turso database and
// degrades to the fallback mirror on read failures; FallbackStore is an
// embedded SQLite mirror used whenever the remote store is not configured.
package store

import (
	"context"
	"errors"
	"time"

	"venture_claims_go/models"
)

// ErrNotFound is returned when a claim id does not resolve to a row.
// Distinguished from other failures so callers can render empty states.
var ErrNotFound = errors.New("claim not found")

// ErrRemoteWrite normalizes remote write failures; callers cannot
// distinguish remote causes beyond the wrapped message.
var ErrRemoteWrite = errors.New("remote store write failed")

// ClaimStore is the record store adapter interface. Both the remote and
// the fallback implementation satisfy it.
type ClaimStore interface {
	// FetchAll returns all claims ordered by creation date descending.
	FetchAll(ctx context.Context) ([]models.Claim, error)
	// FetchOne returns one claim with nested collections, or ErrNotFound.
	FetchOne(ctx context.Context, id string) (*models.Claim, error)
	// Create validates and persists a new claim, returning its id.
	Create(ctx context.Context, claim *models.Claim) (string, error)
	// Update applies a partial update, recomputing the saved amount when a
	// financial field changes, and always stamps last-updated.
	Update(ctx context.Context, id string, update ClaimUpdate) error
	// Delete removes a claim and its owned collections.
	Delete(ctx context.Context, id string) error
	// Search matches case-insensitively against claim number, client name,
	// client id, description and department.
	Search(ctx context.Context, term string) ([]models.Claim, error)
	// AddDocument appends a document to a claim and stamps last-updated.
	AddDocument(ctx context.Context, claimID string, doc *models.ClaimDocument) error
	// AddCommunication appends to a claim's communication log and stamps
	// last-updated.
	AddCommunication(ctx context.Context, claimID string, comm *models.ClaimCommunication) error
}

// ClaimUpdate is a partial claim mutation. Nil fields are left untouched.
// A non-nil Checklists replaces the claim's checklist set wholesale.
type ClaimUpdate struct {
	ClaimNumber      *string                  `json:"claimNumber,omitempty"`
	ClientName       *string                  `json:"clientName,omitempty"`
	ClientID         *string                  `json:"clientId,omitempty"`
	Status           *string                  `json:"status,omitempty"`
	Department       *string                  `json:"department,omitempty"`
	IdentifiedCause  *string                  `json:"identifiedCause,omitempty"`
	Installed        *bool                    `json:"installed,omitempty"`
	InstallationDate *time.Time               `json:"installationDate,omitempty"`
	InvoiceLink      *string                  `json:"invoiceLink,omitempty"`
	SolutionAmount   *float64                 `json:"solutionAmount,omitempty"`
	ClaimedAmount    *float64                 `json:"claimedAmount,omitempty"`
	SavedAmount      *float64                 `json:"savedAmount,omitempty"`
	Description      *string                  `json:"description,omitempty"`
	AssignedTo       *string                  `json:"assignedTo,omitempty"`
	Checklists       *[]models.ClaimChecklist `json:"checklists,omitempty"`
}

// TouchesFinancials reports whether the update carries either financial field.
func (u ClaimUpdate) TouchesFinancials() bool {
	return u.SolutionAmount != nil || u.ClaimedAmount != nil
}

// ApplyTo merges the update into a claim. The saved amount is recomputed
// when either financial field is present and the saved amount itself was
// not explicitly supplied. Last-updated is always stamped.
func (u ClaimUpdate) ApplyTo(claim *models.Claim) {
	if u.ClaimNumber != nil {
		claim.ClaimNumber = *u.ClaimNumber
	}
	if u.ClientName != nil {
		claim.ClientName = *u.ClientName
	}
	if u.ClientID != nil {
		claim.ClientID = *u.ClientID
	}
	if u.Status != nil {
		claim.Status = *u.Status
	}
	if u.Department != nil {
		claim.Department = *u.Department
	}
	if u.IdentifiedCause != nil {
		claim.IdentifiedCause = u.IdentifiedCause
	}
	if u.Installed != nil {
		claim.Installed = *u.Installed
	}
	if u.InstallationDate != nil {
		claim.InstallationDate = u.InstallationDate
	}
	if u.InvoiceLink != nil {
		claim.InvoiceLink = u.InvoiceLink
	}
	if u.SolutionAmount != nil {
		claim.SolutionAmount = *u.SolutionAmount
	}
	if u.ClaimedAmount != nil {
		claim.ClaimedAmount = *u.ClaimedAmount
	}
	if u.SavedAmount != nil {
		claim.SavedAmount = *u.SavedAmount
	} else if u.TouchesFinancials() {
		claim.RecalculateSavedAmount()
	}
	if u.Description != nil {
		claim.Description = u.Description
	}
	if u.AssignedTo != nil {
		claim.AssignedTo = u.AssignedTo
	}
	if u.Checklists != nil {
		claim.Checklists = *u.Checklists
	}
	claim.LastUpdated = time.Now()
}
