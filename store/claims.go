package store

import (
	"fmt"
	"math/rand"
	"time"

	"venture_claims_go/models"
)

// GenerateClaimNumber synthesizes a human-facing claim number.
// Format: CLM-<year>-<4 digits>, e.g. CLM-2026-0815.
func GenerateClaimNumber() string {
	return fmt.Sprintf("CLM-%d-%04d", time.Now().Year(), rand.Intn(9000)+1000)
}

// prepareClaim validates and normalizes a claim before insertion: client
// fields are required and a claim number is synthesized if absent. With no
// solution offered yet the saved amount opens at minus the claimed amount
// (full exposure); otherwise it is derived as claimed minus solution.
func prepareClaim(claim *models.Claim) error {
	if claim.ClientName == "" {
		return fmt.Errorf("client name is required")
	}
	if claim.ClientID == "" {
		return fmt.Errorf("client id is required")
	}
	if claim.ClaimNumber == "" {
		claim.ClaimNumber = GenerateClaimNumber()
	}
	if claim.Status == "" {
		claim.Status = models.ClaimStatusNew
	}
	if claim.SolutionAmount == 0 {
		claim.SavedAmount = -claim.ClaimedAmount
	} else {
		claim.RecalculateSavedAmount()
	}
	now := time.Now()
	if claim.CreationDate.IsZero() {
		claim.CreationDate = now
	}
	claim.LastUpdated = now
	return nil
}
