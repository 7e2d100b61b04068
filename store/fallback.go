package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"venture_claims_go/db"
	"venture_claims_go/models"

	"gorm.io/gorm"
)

// FallbackStore is a durable, unbounded mirror of the claim list held in an
// embedded SQLite database. It is used whenever the remote store is not
// configured or not reachable for a given call. No eviction, no TTL: every
// claim created in fallback mode remains until explicitly deleted.
type FallbackStore struct {
	db *gorm.DB
}

// claimModels are the tables the fallback mirror carries.
var claimModels = []interface{}{
	&models.Claim{},
	&models.ClaimProduct{},
	&models.ClaimDocument{},
	&models.ClaimCommunication{},
	&models.ClaimChecklist{},
	&models.ClaimChecklistItem{},
}

// OpenFallback opens (or creates) the fallback mirror at path. A database
// that cannot be opened or migrated is treated as "no data": the file is
// removed and the store is re-seeded from the built-in sample dataset.
func OpenFallback(path string) (*FallbackStore, error) {
	conn, err := openAndMigrate(path)
	if err != nil {
		log.Printf("[WARNING] Fallback store at %s unreadable (%v), re-seeding", path, err)
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, fmt.Errorf("failed to reset fallback store: %w", rmErr)
		}
		conn, err = openAndMigrate(path)
		if err != nil {
			return nil, err
		}
	}

	s := &FallbackStore{db: conn}
	if err := s.seedIfEmpty(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewFallbackStore wraps an already-open database. The caller is expected to
// have migrated the claim tables; the sample seed is still applied when the
// claim table is empty.
func NewFallbackStore(conn *gorm.DB) (*FallbackStore, error) {
	if err := conn.AutoMigrate(claimModels...); err != nil {
		return nil, fmt.Errorf("failed to migrate fallback store: %w", err)
	}
	s := &FallbackStore{db: conn}
	if err := s.seedIfEmpty(); err != nil {
		return nil, err
	}
	return s, nil
}

func openAndMigrate(path string) (*gorm.DB, error) {
	conn, err := db.OpenLocal(path)
	if err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(claimModels...); err != nil {
		return nil, fmt.Errorf("failed to migrate fallback store: %w", err)
	}
	return conn, nil
}

func (s *FallbackStore) seedIfEmpty() error {
	var count int64
	if err := s.db.Model(&models.Claim{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to inspect fallback store: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, claim := range SampleClaims() {
		c := claim
		if err := s.db.Create(&c).Error; err != nil {
			return fmt.Errorf("failed to seed fallback store: %w", err)
		}
	}
	log.Println("Fallback store seeded from built-in sample dataset")
	return nil
}

func (s *FallbackStore) FetchAll(ctx context.Context) ([]models.Claim, error) {
	var claims []models.Claim
	err := s.db.WithContext(ctx).
		Preload("Products").
		Preload("Documents").
		Preload("Communications").
		Preload("Checklists.Items").
		Order("creation_date DESC").
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}
	return claims, nil
}

func (s *FallbackStore) FetchOne(ctx context.Context, id string) (*models.Claim, error) {
	var claim models.Claim
	err := s.db.WithContext(ctx).
		Preload("Products").
		Preload("Documents").
		Preload("Communications").
		Preload("Checklists.Items").
		First(&claim, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load claim: %w", err)
	}
	return &claim, nil
}

func (s *FallbackStore) Create(ctx context.Context, claim *models.Claim) (string, error) {
	if err := prepareClaim(claim); err != nil {
		return "", err
	}
	if err := s.db.WithContext(ctx).Create(claim).Error; err != nil {
		return "", fmt.Errorf("failed to create claim: %w", err)
	}
	return claim.ID, nil
}

func (s *FallbackStore) Update(ctx context.Context, id string, update ClaimUpdate) error {
	var claim models.Claim
	if err := s.db.WithContext(ctx).First(&claim, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load claim: %w", err)
	}
	// A checklist set in the update replaces the stored one wholesale.
	if update.Checklists != nil {
		if err := s.clearChecklists(ctx, id); err != nil {
			return fmt.Errorf("failed to replace checklists: %w", err)
		}
	}
	update.ApplyTo(&claim)
	if err := s.db.WithContext(ctx).Save(&claim).Error; err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}
	return nil
}

func (s *FallbackStore) clearChecklists(ctx context.Context, claimID string) error {
	var checklists []models.ClaimChecklist
	if err := s.db.WithContext(ctx).Find(&checklists, "claim_id = ?", claimID).Error; err != nil {
		return err
	}
	for _, cl := range checklists {
		if err := s.db.WithContext(ctx).Delete(&models.ClaimChecklistItem{}, "checklist_id = ?", cl.ID).Error; err != nil {
			return err
		}
	}
	return s.db.WithContext(ctx).Delete(&models.ClaimChecklist{}, "claim_id = ?", claimID).Error
}

func (s *FallbackStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Claim{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete claim: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	// SQLite does not always enforce the cascade; clear children explicitly.
	s.db.WithContext(ctx).Delete(&models.ClaimProduct{}, "claim_id = ?", id)
	s.db.WithContext(ctx).Delete(&models.ClaimDocument{}, "claim_id = ?", id)
	s.db.WithContext(ctx).Delete(&models.ClaimCommunication{}, "claim_id = ?", id)
	var checklists []models.ClaimChecklist
	if err := s.db.WithContext(ctx).Find(&checklists, "claim_id = ?", id).Error; err == nil {
		for _, cl := range checklists {
			s.db.WithContext(ctx).Delete(&models.ClaimChecklistItem{}, "checklist_id = ?", cl.ID)
		}
	}
	s.db.WithContext(ctx).Delete(&models.ClaimChecklist{}, "claim_id = ?", id)
	return nil
}

func (s *FallbackStore) Search(ctx context.Context, term string) ([]models.Claim, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	var claims []models.Claim
	err := s.db.WithContext(ctx).
		Preload("Products").
		Preload("Documents").
		Where(
			"LOWER(claim_number) LIKE ? OR LOWER(client_name) LIKE ? OR LOWER(client_id) LIKE ? OR LOWER(COALESCE(description,'')) LIKE ? OR LOWER(department) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		).
		Order("creation_date DESC").
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search claims: %w", err)
	}
	return claims, nil
}

func (s *FallbackStore) AddDocument(ctx context.Context, claimID string, doc *models.ClaimDocument) error {
	if !models.IsValidDocumentType(doc.Type) {
		return fmt.Errorf("invalid document type: %s", doc.Type)
	}
	if err := s.ensureClaim(ctx, claimID); err != nil {
		return err
	}
	doc.ClaimID = claimID
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	return s.touch(ctx, claimID)
}

func (s *FallbackStore) AddCommunication(ctx context.Context, claimID string, comm *models.ClaimCommunication) error {
	if err := s.ensureClaim(ctx, claimID); err != nil {
		return err
	}
	comm.ClaimID = claimID
	if err := s.db.WithContext(ctx).Create(comm).Error; err != nil {
		return fmt.Errorf("failed to add communication: %w", err)
	}
	return s.touch(ctx, claimID)
}

func (s *FallbackStore) ensureClaim(ctx context.Context, claimID string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Claim{}).Where("id = ?", claimID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check claim: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *FallbackStore) touch(ctx context.Context, claimID string) error {
	return s.db.WithContext(ctx).Model(&models.Claim{}).
		Where("id = ?", claimID).
		UpdateColumn("last_updated", time.Now()).Error
}
