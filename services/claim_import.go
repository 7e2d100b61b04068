package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"venture_claims_go/models"
	"venture_claims_go/store"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	clientsSheet = "Clients"
	claimsSheet  = "Claims"
)

// ImportResult summarizes a spreadsheet import run
type ImportResult struct {
	TotalProcessed int      `json:"totalProcessed"`
	SuccessCount   int      `json:"successCount"`
	FailedCount    int      `json:"failedCount"`
	Errors         []string `json:"errors,omitempty"`
}

// ImportService loads clients and claims from Excel workbooks
type ImportService struct {
	db     *gorm.DB
	claims store.ClaimStore
}

func NewImportService(db *gorm.DB, claims store.ClaimStore) *ImportService {
	return &ImportService{db: db, claims: claims}
}

// ValidateImportFile checks the upload is an Excel workbook
func ValidateImportFile(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".xlsx" {
		return fmt.Errorf("invalid file format %s; please upload an Excel (.xlsx) file", ext)
	}
	return nil
}

// ImportClients reads the Clients sheet and registers each row. Rows with an
// email already on file update the existing client instead of duplicating it.
// Expected columns: Email, Name, Phone, Client Code (optional).
func (s *ImportService) ImportClients(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(clientsSheet)
	if err != nil {
		return nil, fmt.Errorf("workbook has no %q sheet: %w", clientsSheet, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if isBlankRow(row) {
			continue
		}
		result.TotalProcessed++

		email := strings.TrimSpace(cell(row, 0))
		name := strings.TrimSpace(cell(row, 1))
		phone := strings.TrimSpace(cell(row, 2))
		code := strings.TrimSpace(cell(row, 3))

		if email == "" || name == "" {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: email and name are required", i+1))
			continue
		}

		var existing models.Client
		err := s.db.WithContext(ctx).First(&existing, "email = ?", email).Error
		switch {
		case err == nil:
			existing.ClientName = name
			if phone != "" {
				existing.Phone = &phone
			}
			if upErr := s.db.WithContext(ctx).Save(&existing).Error; upErr != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, upErr))
				continue
			}
		case err == gorm.ErrRecordNotFound:
			if code == "" {
				code = GenerateClientCode()
			}
			client := models.Client{ClientCode: code, ClientName: name, Email: email}
			if phone != "" {
				client.Phone = &phone
			}
			if crErr := s.db.WithContext(ctx).Create(&client).Error; crErr != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, crErr))
				continue
			}
		default:
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.SuccessCount++
	}
	return result, nil
}

// ImportClaims reads the Claims sheet and opens a claim per row. The client
// is resolved by email and must already exist (or be imported in the same
// workbook's Clients sheet beforehand).
// Expected columns: Client Email, Department, Description, Claimed Amount, Status.
func (s *ImportService) ImportClaims(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(claimsSheet)
	if err != nil {
		return nil, fmt.Errorf("workbook has no %q sheet: %w", claimsSheet, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if isBlankRow(row) {
			continue
		}
		result.TotalProcessed++

		email := strings.TrimSpace(cell(row, 0))
		department := strings.TrimSpace(cell(row, 1))
		description := strings.TrimSpace(cell(row, 2))
		claimedRaw := strings.TrimSpace(cell(row, 3))
		status := strings.TrimSpace(cell(row, 4))

		if email == "" {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: client email is required", i+1))
			continue
		}

		var client models.Client
		if err := s.db.WithContext(ctx).First(&client, "email = ?", email).Error; err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: no client with email %s", i+1, email))
			continue
		}

		var claimed float64
		if claimedRaw != "" {
			claimed, err = strconv.ParseFloat(claimedRaw, 64)
			if err != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid claimed amount %q", i+1, claimedRaw))
				continue
			}
		}
		if status != "" && !models.IsValidClaimStatus(status) {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid status %q", i+1, status))
			continue
		}
		if department == "" {
			department = intakeDepartment
		}

		claim := models.Claim{
			ClientName:    client.ClientName,
			ClientID:      client.ClientCode,
			Status:        status,
			Department:    department,
			ClaimedAmount: claimed,
			Description:   strPtrOrNil(description),
		}
		if _, err := s.claims.Create(ctx, &claim); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.SuccessCount++
	}
	return result, nil
}

// GenerateImportTemplate builds a workbook with the expected sheets and
// headers so users start from a known layout.
func GenerateImportTemplate() (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", "Instructions"); err != nil {
		return nil, err
	}
	instructions := [][]interface{}{
		{"Claims import template"},
		{},
		{"1. Fill the Clients sheet first; clients are matched by email."},
		{"2. Fill the Claims sheet; each row references a client by email."},
		{"3. Claimed Amount must be a number. Status may be left empty for New."},
		{fmt.Sprintf("4. Valid statuses: %s", strings.Join(models.ClaimStatuses, ", "))},
	}
	for i, row := range instructions {
		for j, v := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue("Instructions", cellRef, v); err != nil {
				return nil, err
			}
		}
	}

	if _, err := f.NewSheet(clientsSheet); err != nil {
		return nil, err
	}
	clientHeaders := []string{"Email", "Name", "Phone", "Client Code"}
	for j, h := range clientHeaders {
		cellRef, _ := excelize.CoordinatesToCellName(j+1, 1)
		if err := f.SetCellValue(clientsSheet, cellRef, h); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(claimsSheet); err != nil {
		return nil, err
	}
	claimHeaders := []string{"Client Email", "Department", "Description", "Claimed Amount", "Status"}
	for j, h := range claimHeaders {
		cellRef, _ := excelize.CoordinatesToCellName(j+1, 1)
		if err := f.SetCellValue(claimsSheet, cellRef, h); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
