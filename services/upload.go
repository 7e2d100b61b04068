package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"venture_claims_go/models"
	"venture_claims_go/store"
)

// MaxUploadSize is the ceiling for claim document uploads (10MB)
const MaxUploadSize = 10 * 1024 * 1024

var allowedDocumentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".txt":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".eml":  true,
	".msg":  true,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateDocumentUpload checks size and extension before anything is stored
func ValidateDocumentUpload(file *multipart.FileHeader) error {
	if file.Size > MaxUploadSize {
		return fmt.Errorf("file exceeds the maximum size of %dMB", MaxUploadSize/(1024*1024))
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedDocumentExtensions[ext] {
		return fmt.Errorf("file type %s is not allowed", ext)
	}
	return nil
}

// DocumentTypeForFilename classifies an upload by its extension
func DocumentTypeForFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case imageExtensions[ext]:
		return models.DocumentTypeImage
	case ext == ".eml" || ext == ".msg":
		return models.DocumentTypeEmail
	default:
		return models.DocumentTypeDocument
	}
}

// UploadClaimDocument validates, stores and records a document against a
// claim. The returned record carries the URL the stored file is served from.
func UploadClaimDocument(ctx context.Context, claims store.ClaimStore, claimID string, file *multipart.FileHeader, category string, uploadedBy *string) (*models.ClaimDocument, error) {
	if err := ValidateDocumentUpload(file); err != nil {
		return nil, err
	}

	key := GenerateDocumentKey(claimID, file.Filename)
	result, err := Storage.Upload(ctx, file, key)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &models.ClaimDocument{
		Name:       file.Filename,
		Type:       DocumentTypeForFilename(file.Filename),
		URL:        result.URL,
		Category:   category,
		UploadedBy: uploadedBy,
	}
	if err := claims.AddDocument(ctx, claimID, doc); err != nil {
		// Remove the orphaned object; the record never made it in.
		if delErr := Storage.Delete(ctx, key); delErr != nil {
			log.Printf("[WARNING] Failed to clean up stored file %s: %v", key, delErr)
		}
		return nil, err
	}
	return doc, nil
}
