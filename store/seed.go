package store

import (
	"time"

	"venture_claims_go/models"
)

func strPtr(s string) *string { return &s }

// SampleClaims is the built-in dataset the fallback store seeds itself from
// when its database is empty or unreadable.
func SampleClaims() []models.Claim {
	return []models.Claim{
		{
			ID:              "1",
			ClaimNumber:     "CLM-2023-0135",
			ClientName:      "Acme Corporation",
			ClientID:        "ACME001",
			CreationDate:    time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
			Status:          models.ClaimStatusNew,
			Department:      "Technical",
			IdentifiedCause: strPtr("Manufacturing Defect"),
			Installed:       true,
			InvoiceLink:     strPtr("INV-88754"),
			SolutionAmount:  0,
			ClaimedAmount:   12500,
			SavedAmount:     -12500,
			Description:     strPtr("Carpet tiles showing premature wear after only 3 months of installation."),
			LastUpdated:     time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
			Products: []models.ClaimProduct{
				{
					ID:              "p1",
					Description:     "Venture Modular Carpet - Linear Pattern",
					Style:           "VM-Linear",
					Color:           "Charcoal Grey",
					Quantity:        200,
					ClaimedQuantity: 200,
					PricePerSY:      45,
					TotalPrice:      9000,
				},
				{
					ID:              "p2",
					Description:     "Installation Labor",
					Style:           "Service",
					Color:           "N/A",
					Quantity:        1,
					ClaimedQuantity: 1,
					PricePerSY:      3500,
					TotalPrice:      3500,
				},
			},
			Documents: []models.ClaimDocument{
				{
					ID:         "d1",
					Name:       "Site photo 1.jpg",
					Type:       models.DocumentTypeImage,
					URL:        "https://images.pexels.com/photos/276534/pexels-photo-276534.jpeg",
					UploadDate: time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
					Category:   "Site Condition",
				},
				{
					ID:         "d2",
					Name:       "Invoice.pdf",
					Type:       models.DocumentTypeDocument,
					URL:        "/documents/invoice-88754.pdf",
					UploadDate: time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
					Category:   "Financial",
				},
			},
		},
		{
			ID:              "2",
			ClaimNumber:     "CLM-2023-0142",
			ClientName:      "Global Offices Inc.",
			ClientID:        "GLOB002",
			CreationDate:    time.Date(2023, 7, 22, 0, 0, 0, 0, time.UTC),
			Status:          models.ClaimStatusScreening,
			Department:      "Customer Service",
			IdentifiedCause: strPtr("Color Variation"),
			Installed:       false,
			InvoiceLink:     strPtr("INV-90122"),
			SolutionAmount:  0,
			ClaimedAmount:   8750,
			SavedAmount:     -8750,
			Description:     strPtr("Customer reports significant color variation between ordered samples and delivered product."),
			LastUpdated:     time.Date(2023, 7, 25, 0, 0, 0, 0, time.UTC),
			Products: []models.ClaimProduct{
				{
					ID:              "p3",
					Description:     "Venture Modular Carpet - Geometric",
					Style:           "VM-Geo",
					Color:           "Blue Steel",
					Quantity:        175,
					ClaimedQuantity: 175,
					PricePerSY:      50,
					TotalPrice:      8750,
				},
			},
			Documents: []models.ClaimDocument{
				{
					ID:         "d3",
					Name:       "Color comparison.jpg",
					Type:       models.DocumentTypeImage,
					URL:        "https://images.pexels.com/photos/4753928/pexels-photo-4753928.jpeg",
					UploadDate: time.Date(2023, 7, 22, 0, 0, 0, 0, time.UTC),
					Category:   "Product Condition",
				},
			},
		},
		{
			ID:              "3",
			ClaimNumber:     "CLM-2023-0151",
			ClientName:      "Summit Hospitality Group",
			ClientID:        "SUMM003",
			CreationDate:    time.Date(2023, 8, 10, 0, 0, 0, 0, time.UTC),
			Status:          models.ClaimStatusNegotiation,
			Department:      "Claims",
			IdentifiedCause: strPtr("Shipping Damage"),
			Installed:       false,
			SolutionAmount:  2100,
			ClaimedAmount:   5400,
			SavedAmount:     3300,
			Description:     strPtr("Two pallets arrived with water damage; customer requests replacement of affected tiles."),
			LastUpdated:     time.Date(2023, 9, 2, 0, 0, 0, 0, time.UTC),
			Products: []models.ClaimProduct{
				{
					ID:              "p4",
					Description:     "Venture Modular Carpet - Heathered",
					Style:           "VM-Heather",
					Color:           "Sandstone",
					Quantity:        120,
					ClaimedQuantity: 45,
					PricePerSY:      45,
					TotalPrice:      5400,
				},
			},
			Communications: []models.ClaimCommunication{
				{
					ID:      "c1",
					Date:    time.Date(2023, 8, 10, 9, 30, 0, 0, time.UTC),
					Type:    models.CommunicationTypeEmail,
					Subject: strPtr("Water damaged delivery"),
					Content: "Photos of the damaged pallets attached. We need replacements before the October opening.",
					Sender:  "facilities@summithospitality.com",
				},
			},
		},
	}
}
