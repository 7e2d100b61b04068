package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"venture_claims_go/db"
	"venture_claims_go/models"
	"venture_claims_go/services"
	"venture_claims_go/store"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests while allowing shared cache
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	// Initialize Storage for tests if not already set
	if services.Storage == nil {
		services.Storage = services.NewLocalStorage(t.TempDir())
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Client{},
		&models.Alert{},
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.ReferenceDocument{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

// setupAggregate builds a fallback-backed claims aggregate over the test
// database, pre-loaded with the sample dataset.
func setupAggregate(t *testing.T, conn *gorm.DB) *services.ClaimsAggregate {
	t.Helper()
	claims, err := store.NewFallbackStore(conn)
	assert.NoError(t, err)

	agg := services.NewClaimsAggregate(claims)
	assert.NoError(t, agg.Load(context.Background()))
	return agg
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return e, c, rec
}
