package store

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"venture_claims_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var claimNumberPattern = regexp.MustCompile(`^CLM-\d{4}-\d{4}$`)

func setupFallback(t *testing.T) *FallbackStore {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	s, err := NewFallbackStore(conn)
	assert.NoError(t, err)
	return s
}

func float64Ptr(f float64) *float64 { return &f }

func TestFallbackSeedsSampleDataset(t *testing.T) {
	s := setupFallback(t)

	claims, err := s.FetchAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, claims, 3)

	// Ordered by creation date descending
	for i := 1; i < len(claims); i++ {
		assert.False(t, claims[i].CreationDate.After(claims[i-1].CreationDate))
	}

	// Nested collections come back inlined
	first, err := s.FetchOne(context.Background(), "1")
	assert.NoError(t, err)
	assert.Len(t, first.Products, 2)
	assert.Len(t, first.Documents, 2)
}

// A corrupt fallback file is treated as "no data": removed, recreated and
// re-seeded from the sample dataset.
func TestOpenFallbackReseedsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallback.db")
	err := os.WriteFile(path, []byte("this is not a sqlite database at all"), 0644)
	assert.NoError(t, err)

	s, err := OpenFallback(path)
	assert.NoError(t, err)

	claims, err := s.FetchAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, claims, 3)
}

func TestCreateRequiresClientFields(t *testing.T) {
	s := setupFallback(t)

	_, err := s.Create(context.Background(), &models.Claim{ClientID: "A1"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "client name")

	_, err = s.Create(context.Background(), &models.Claim{ClientName: "Acme"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "client id")
}

// End-to-end scenario: create with only the claimed amount and read it back.
func TestCreateThenFetchOne(t *testing.T) {
	s := setupFallback(t)

	id, err := s.Create(context.Background(), &models.Claim{
		ClientName:    "Acme",
		ClientID:      "A1",
		ClaimedAmount: 1000,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, id)

	claim, err := s.FetchOne(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, models.ClaimStatusNew, claim.Status)
	assert.Equal(t, float64(0), claim.SolutionAmount)
	assert.Equal(t, float64(-1000), claim.SavedAmount)
	assert.Regexp(t, claimNumberPattern, claim.ClaimNumber)
}

func TestUpdateRecomputesSavedAmount(t *testing.T) {
	s := setupFallback(t)

	id, err := s.Create(context.Background(), &models.Claim{
		ClientName:    "Acme",
		ClientID:      "A1",
		ClaimedAmount: 1000,
	})
	assert.NoError(t, err)

	before, err := s.FetchOne(context.Background(), id)
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	err = s.Update(context.Background(), id, ClaimUpdate{SolutionAmount: float64Ptr(400)})
	assert.NoError(t, err)

	after, err := s.FetchOne(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, float64(600), after.SavedAmount)
	assert.True(t, after.LastUpdated.After(before.LastUpdated))
}

func TestUpdateHonorsExplicitSavedAmount(t *testing.T) {
	s := setupFallback(t)

	id, err := s.Create(context.Background(), &models.Claim{
		ClientName:    "Acme",
		ClientID:      "A1",
		ClaimedAmount: 1000,
	})
	assert.NoError(t, err)

	// An explicitly supplied saved amount wins over the derivation
	err = s.Update(context.Background(), id, ClaimUpdate{
		SolutionAmount: float64Ptr(400),
		SavedAmount:    float64Ptr(999),
	})
	assert.NoError(t, err)

	claim, err := s.FetchOne(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, float64(999), claim.SavedAmount)
}

func TestUpdateReplacesChecklists(t *testing.T) {
	s := setupFallback(t)

	id, err := s.Create(context.Background(), &models.Claim{
		ClientName: "Acme",
		ClientID:   "A1",
		Checklists: []models.ClaimChecklist{{
			Type:  "Manufacturing Defect",
			Items: []models.ClaimChecklistItem{{Title: "Photos received"}},
		}},
	})
	assert.NoError(t, err)

	replacement := []models.ClaimChecklist{{
		Type: "Installation Issue",
		Items: []models.ClaimChecklistItem{
			{Title: "Installer contacted", Completed: true},
			{Title: "Site visit scheduled", Completed: false},
		},
	}}
	err = s.Update(context.Background(), id, ClaimUpdate{Checklists: &replacement})
	assert.NoError(t, err)

	claim, err := s.FetchOne(context.Background(), id)
	assert.NoError(t, err)
	assert.Len(t, claim.Checklists, 1)
	assert.Equal(t, "Installation Issue", claim.Checklists[0].Type)
	assert.Len(t, claim.Checklists[0].Items, 2)
	assert.Equal(t, 50, claim.Checklists[0].Progress())

	// The replaced checklist's items are gone, not orphaned
	var orphaned int64
	s.db.Model(&models.ClaimChecklistItem{}).Count(&orphaned)
	assert.Equal(t, int64(2), orphaned)
}

func TestUpdateUnknownIDReturnsNotFound(t *testing.T) {
	s := setupFallback(t)

	err := s.Update(context.Background(), "no-such-id", ClaimUpdate{SolutionAmount: float64Ptr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchOneAbsent(t *testing.T) {
	s := setupFallback(t)

	_, err := s.FetchOne(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchAllIdempotent(t *testing.T) {
	s := setupFallback(t)

	first, err := s.FetchAll(context.Background())
	assert.NoError(t, err)
	second, err := s.FetchAll(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].ClaimNumber, second[i].ClaimNumber)
	}
}

func TestSearchMatchesAcrossFields(t *testing.T) {
	s := setupFallback(t)

	byNumber, err := s.Search(context.Background(), "clm-2023-0135")
	assert.NoError(t, err)
	assert.Len(t, byNumber, 1)
	assert.Equal(t, "1", byNumber[0].ID)

	byClient, err := s.Search(context.Background(), "acme")
	assert.NoError(t, err)
	assert.Len(t, byClient, 1)

	byDepartment, err := s.Search(context.Background(), "customer service")
	assert.NoError(t, err)
	assert.Len(t, byDepartment, 1)
	assert.Equal(t, "2", byDepartment[0].ID)

	byDescription, err := s.Search(context.Background(), "water damage")
	assert.NoError(t, err)
	assert.Len(t, byDescription, 1)
	assert.Equal(t, "3", byDescription[0].ID)

	none, err := s.Search(context.Background(), "zzz-nothing")
	assert.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteRemovesOwnedCollections(t *testing.T) {
	s := setupFallback(t)

	err := s.Delete(context.Background(), "1")
	assert.NoError(t, err)

	_, err = s.FetchOne(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNotFound)

	var productCount int64
	s.db.Model(&models.ClaimProduct{}).Where("claim_id = ?", "1").Count(&productCount)
	assert.Equal(t, int64(0), productCount)

	var docCount int64
	s.db.Model(&models.ClaimDocument{}).Where("claim_id = ?", "1").Count(&docCount)
	assert.Equal(t, int64(0), docCount)

	err = s.Delete(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddDocumentStampsLastUpdated(t *testing.T) {
	s := setupFallback(t)

	before, err := s.FetchOne(context.Background(), "2")
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	err = s.AddDocument(context.Background(), "2", &models.ClaimDocument{
		Name:     "report.pdf",
		Type:     models.DocumentTypeDocument,
		URL:      "/documents/report.pdf",
		Category: "Analysis",
	})
	assert.NoError(t, err)

	after, err := s.FetchOne(context.Background(), "2")
	assert.NoError(t, err)
	assert.Len(t, after.Documents, len(before.Documents)+1)
	assert.True(t, after.LastUpdated.After(before.LastUpdated))
}

func TestAddDocumentRejectsUnknownType(t *testing.T) {
	s := setupFallback(t)

	before, err := s.FetchOne(context.Background(), "2")
	assert.NoError(t, err)

	err = s.AddDocument(context.Background(), "2", &models.ClaimDocument{
		Name: "weird.bin",
		Type: "binary",
		URL:  "/documents/weird.bin",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid document type")

	after, err := s.FetchOne(context.Background(), "2")
	assert.NoError(t, err)
	assert.Len(t, after.Documents, len(before.Documents))
}

func TestAddCommunicationAppendOnly(t *testing.T) {
	s := setupFallback(t)

	comm := &models.ClaimCommunication{
		Type:    models.CommunicationTypeNote,
		Content: "Called the customer, replacement approved.",
		Sender:  "agent@ventureclaims.com",
	}
	comm.SetRecipients([]string{"facilities@summithospitality.com"})

	err := s.AddCommunication(context.Background(), "3", comm)
	assert.NoError(t, err)

	claim, err := s.FetchOne(context.Background(), "3")
	assert.NoError(t, err)
	assert.Len(t, claim.Communications, 2)

	var stored *models.ClaimCommunication
	for i := range claim.Communications {
		if claim.Communications[i].ID == comm.ID {
			stored = &claim.Communications[i]
		}
	}
	assert.NotNil(t, stored)
	assert.Equal(t, []string{"facilities@summithospitality.com"}, stored.Recipients())
}

func TestGenerateClaimNumberPattern(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Regexp(t, claimNumberPattern, GenerateClaimNumber())
	}
}

// Round-trip: every entity field must survive a save and reload unchanged.
func TestClaimRowRoundTrip(t *testing.T) {
	s := setupFallback(t)

	installDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	original := &models.Claim{
		ClaimNumber:      "CLM-2024-0001",
		ClientName:       "Roundtrip Inc.",
		ClientID:         "RT001",
		Status:           models.ClaimStatusAnalyzing,
		Department:       "Technical",
		IdentifiedCause:  strPtr("Installation Issue"),
		Installed:        true,
		InstallationDate: &installDate,
		InvoiceLink:      strPtr("INV-12345"),
		SolutionAmount:   250,
		ClaimedAmount:    1000,
		Description:      strPtr("Full field coverage check."),
		AssignedTo:       strPtr("user-42"),
		Products: []models.ClaimProduct{{
			Description:     "Sample product",
			Style:           "S-1",
			Color:           "Red",
			Quantity:        10,
			ClaimedQuantity: 4,
			PricePerSY:      25,
		}},
		Checklists: []models.ClaimChecklist{{
			Type: "Manufacturing Defect",
			Items: []models.ClaimChecklistItem{
				{Title: "Photos received", Completed: true},
				{Title: "Sample inspected", Completed: false},
			},
		}},
	}

	id, err := s.Create(context.Background(), original)
	assert.NoError(t, err)

	loaded, err := s.FetchOne(context.Background(), id)
	assert.NoError(t, err)

	assert.Equal(t, original.ClaimNumber, loaded.ClaimNumber)
	assert.Equal(t, original.ClientName, loaded.ClientName)
	assert.Equal(t, original.ClientID, loaded.ClientID)
	assert.Equal(t, original.Status, loaded.Status)
	assert.Equal(t, original.Department, loaded.Department)
	assert.Equal(t, *original.IdentifiedCause, *loaded.IdentifiedCause)
	assert.Equal(t, original.Installed, loaded.Installed)
	assert.Equal(t, installDate.Unix(), loaded.InstallationDate.Unix())
	assert.Equal(t, *original.InvoiceLink, *loaded.InvoiceLink)
	assert.Equal(t, original.SolutionAmount, loaded.SolutionAmount)
	assert.Equal(t, original.ClaimedAmount, loaded.ClaimedAmount)
	assert.Equal(t, float64(750), loaded.SavedAmount)
	assert.Equal(t, *original.Description, *loaded.Description)
	assert.Equal(t, *original.AssignedTo, *loaded.AssignedTo)

	assert.Len(t, loaded.Products, 1)
	assert.Equal(t, float64(250), loaded.Products[0].TotalPrice) // quantity x unit price
	assert.Len(t, loaded.Checklists, 1)
	assert.Len(t, loaded.Checklists[0].Items, 2)
	assert.Equal(t, 50, loaded.Checklists[0].Progress())
}

// Remote store over an in-memory database with a separate fallback mirror.
func setupRemote(t *testing.T) (*RemoteStore, *FallbackStore) {
	t.Helper()
	remoteConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, remoteConn.AutoMigrate(claimModels...))

	fallback := setupFallback(t)
	return NewRemoteStore(remoteConn, fallback), fallback
}

func TestRemoteSavedAmountInvariant(t *testing.T) {
	remote, _ := setupRemote(t)

	id, err := remote.Create(context.Background(), &models.Claim{
		ClientName:    "Acme",
		ClientID:      "A1",
		ClaimedAmount: 1000,
	})
	assert.NoError(t, err)

	err = remote.Update(context.Background(), id, ClaimUpdate{SolutionAmount: float64Ptr(400)})
	assert.NoError(t, err)

	claim, err := remote.FetchOne(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, float64(600), claim.SavedAmount)
}

func TestRemoteFetchOneNotFound(t *testing.T) {
	remote, _ := setupRemote(t)

	_, err := remote.FetchOne(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoteReadsFallBackToMirror(t *testing.T) {
	remote, _ := setupRemote(t)

	// Close the remote connection so every remote query fails.
	sqlDB, err := remote.db.DB()
	assert.NoError(t, err)
	assert.NoError(t, sqlDB.Close())

	claims, err := remote.FetchAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, claims, 3) // mirror's seeded dataset

	claim, err := remote.FetchOne(context.Background(), "1")
	assert.NoError(t, err)
	assert.Equal(t, "CLM-2023-0135", claim.ClaimNumber)
}

func TestRemoteWritesNormalizeErrors(t *testing.T) {
	remote, _ := setupRemote(t)

	sqlDB, err := remote.db.DB()
	assert.NoError(t, err)
	assert.NoError(t, sqlDB.Close())

	_, err = remote.Create(context.Background(), &models.Claim{
		ClientName: "Acme", ClientID: "A1",
	})
	assert.ErrorIs(t, err, ErrRemoteWrite)
}
