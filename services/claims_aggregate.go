package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"sync"

	"venture_claims_go/models"
	"venture_claims_go/store"
)

// Totals are the financial reductions over the claim list
type Totals struct {
	TotalSolution float64 `json:"totalSolution"`
	TotalClaimed  float64 `json:"totalClaimed"`
	TotalSaved    float64 `json:"totalSaved"`
}

// ClaimsAggregate holds the in-memory claim list in front of the record
// store. Reads are served from memory when the store cannot answer; writes
// go to the store first and are mirrored into memory on success.
type ClaimsAggregate struct {
	mu     sync.RWMutex
	store  store.ClaimStore
	claims []models.Claim
}

func NewClaimsAggregate(cs store.ClaimStore) *ClaimsAggregate {
	return &ClaimsAggregate{store: cs}
}

// Load populates the aggregate from the store
func (a *ClaimsAggregate) Load(ctx context.Context) error {
	claims, err := a.store.FetchAll(ctx)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.claims = claims
	a.mu.Unlock()
	return nil
}

// Refresh is Load under a different name for callers that already loaded
func (a *ClaimsAggregate) Refresh(ctx context.Context) error {
	return a.Load(ctx)
}

// Claims returns a snapshot of the current list
func (a *ClaimsAggregate) Claims() []models.Claim {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.Claim, len(a.claims))
	copy(out, a.claims)
	return out
}

// Add creates a claim through the store and refreshes the list
func (a *ClaimsAggregate) Add(ctx context.Context, claim *models.Claim) (string, error) {
	id, err := a.store.Create(ctx, claim)
	if err != nil {
		return "", err
	}
	if err := a.Load(ctx); err != nil {
		log.Printf("[WARNING] Claim list refresh after create failed: %v", err)
	}
	return id, nil
}

// Update applies a partial update through the store, then mirrors it into
// the in-memory copy so readers see it without a full reload.
func (a *ClaimsAggregate) Update(ctx context.Context, id string, update store.ClaimUpdate) error {
	if err := a.store.Update(ctx, id, update); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.claims {
		if a.claims[i].ID == id {
			update.ApplyTo(&a.claims[i])
			break
		}
	}
	return nil
}

// Get fetches one claim fresh from the store, answering from memory when the
// store cannot resolve it for reasons other than absence.
func (a *ClaimsAggregate) Get(ctx context.Context, id string) (*models.Claim, error) {
	claim, err := a.store.FetchOne(ctx, id)
	if err == nil {
		return claim, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	for i := range a.claims {
		if a.claims[i].ID == id {
			c := a.claims[i]
			return &c, nil
		}
	}
	return nil, err
}

// Delete removes a claim through the store and drops it from memory
func (a *ClaimsAggregate) Delete(ctx context.Context, id string) error {
	if err := a.store.Delete(ctx, id); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.claims {
		if a.claims[i].ID == id {
			a.claims = append(a.claims[:i], a.claims[i+1:]...)
			break
		}
	}
	return nil
}

// Search delegates to the store
func (a *ClaimsAggregate) Search(ctx context.Context, term string) ([]models.Claim, error) {
	return a.store.Search(ctx, term)
}

// UploadDocument stores the file, records it against the claim and appends
// it to the in-memory copy.
func (a *ClaimsAggregate) UploadDocument(ctx context.Context, claimID string, file *multipart.FileHeader, category string, uploadedBy *string) (*models.ClaimDocument, error) {
	doc, err := UploadClaimDocument(ctx, a.store, claimID, file, category, uploadedBy)
	if err != nil {
		return nil, err
	}
	a.appendDocument(claimID, *doc)
	return doc, nil
}

// AddCommunication appends to a claim's communication log through the store
// and mirrors it into memory.
func (a *ClaimsAggregate) AddCommunication(ctx context.Context, claimID string, comm *models.ClaimCommunication) error {
	if err := a.store.AddCommunication(ctx, claimID, comm); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.claims {
		if a.claims[i].ID == claimID {
			a.claims[i].Communications = append(a.claims[i].Communications, *comm)
			break
		}
	}
	return nil
}

// CalculateTotals reduces the in-memory list to its financial totals
func (a *ClaimsAggregate) CalculateTotals() Totals {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var t Totals
	for i := range a.claims {
		t.TotalSolution += a.claims[i].SolutionAmount
		t.TotalClaimed += a.claims[i].ClaimedAmount
		t.TotalSaved += a.claims[i].SavedAmount
	}
	return t
}

func (a *ClaimsAggregate) appendDocument(claimID string, doc models.ClaimDocument) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.claims {
		if a.claims[i].ID == claimID {
			a.claims[i].Documents = append(a.claims[i].Documents, doc)
			break
		}
	}
}
