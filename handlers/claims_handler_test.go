package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"venture_claims_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestClaimsList(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	_, c, rec := setupEcho(http.MethodGet, "/api/claims", nil)
	assert.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var claims []models.Claim
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claims))
	assert.Len(t, claims, 3)
	// Newest first
	assert.Equal(t, "CLM-2023-0151", claims[0].ClaimNumber)
}

func TestClaimsGet(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	_, c, rec := setupEcho(http.MethodGet, "/api/claims/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	assert.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var claim models.Claim
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claim))
	assert.Equal(t, "Acme Corporation", claim.ClientName)
	assert.Len(t, claim.Products, 2)
}

func TestClaimsGetNotFound(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	_, c, rec := setupEcho(http.MethodGet, "/api/claims/missing", nil)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	assert.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestClaimsCreate(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	payload := `{"clientName":"New Client","clientId":"NEW01","claimedAmount":1500,"department":"Technical"}`
	_, c, rec := setupEcho(http.MethodPost, "/api/claims", strings.NewReader(payload))
	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var claim models.Claim
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claim))
	assert.Equal(t, models.ClaimStatusNew, claim.Status)
	assert.Equal(t, float64(-1500), claim.SavedAmount)
	assert.Regexp(t, `^CLM-\d{4}-\d{4}$`, claim.ClaimNumber)
}

func TestClaimsCreateValidation(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	_, c, rec := setupEcho(http.MethodPost, "/api/claims", strings.NewReader(`{"clientId":"X"}`))
	assert.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClaimsUpdateFinancials(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	payload := `{"solutionAmount":400}`
	_, c, rec := setupEcho(http.MethodPut, "/api/claims/1", strings.NewReader(payload))
	c.SetParamNames("id")
	c.SetParamValues("1")
	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var claim models.Claim
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claim))
	// claimed 12500, solution 400
	assert.Equal(t, float64(12100), claim.SavedAmount)
}

func TestClaimsUpdateStatusValidation(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	_, c, rec := setupEcho(http.MethodPut, "/api/claims/1", strings.NewReader(`{"status":"Bogus"}`))
	c.SetParamNames("id")
	c.SetParamValues("1")
	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClaimsUpdateNotFound(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	_, c, rec := setupEcho(http.MethodPut, "/api/claims/missing", strings.NewReader(`{"department":"X"}`))
	c.SetParamNames("id")
	c.SetParamValues("missing")
	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClaimsDelete(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	_, c, rec := setupEcho(http.MethodDelete, "/api/claims/2", nil)
	c.SetParamNames("id")
	c.SetParamValues("2")
	assert.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, c, rec = setupEcho(http.MethodGet, "/api/claims/2", nil)
	c.SetParamNames("id")
	c.SetParamValues("2")
	assert.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClaimsSearch(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	_, c, rec := setupEcho(http.MethodGet, "/api/claims/search?q=acme", nil)
	assert.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var claims []models.Claim
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claims))
	assert.Len(t, claims, 1)

	// Missing query parameter is a validation failure
	_, c, rec = setupEcho(http.MethodGet, "/api/claims/search", nil)
	assert.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClaimsTotals(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	_, c, rec := setupEcho(http.MethodGet, "/api/claims/totals", nil)
	assert.NoError(t, h.Totals(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var totals map[string]float64
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	assert.Equal(t, float64(26650), totals["totalClaimed"])
	assert.Equal(t, float64(2100), totals["totalSolution"])
}

func TestClaimsAddCommunication(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	payload := `{"type":"call","content":"Discussed replacement schedule","sender":"agent@ventureclaims.com"}`
	_, c, rec := setupEcho(http.MethodPost, "/api/claims/1/communications", strings.NewReader(payload))
	c.SetParamNames("id")
	c.SetParamValues("1")
	assert.NoError(t, h.AddCommunication(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var comm models.ClaimCommunication
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comm))
	assert.Equal(t, models.CommunicationTypeCall, comm.Type)
	assert.NotEmpty(t, comm.ID)
}

func TestClaimsUploadDocument(t *testing.T) {
	conn := setupTestDB(t)
	h := NewClaimsHandler(setupAggregate(t, conn))

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "photo.jpg")
	assert.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	assert.NoError(t, err)
	assert.NoError(t, writer.WriteField("category", "Site Condition"))
	assert.NoError(t, writer.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/claims/1/documents", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.NoError(t, h.UploadDocument(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var doc models.ClaimDocument
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, models.DocumentTypeImage, doc.Type)
	assert.Equal(t, "Site Condition", doc.Category)
	assert.NotEmpty(t, doc.URL)
}
