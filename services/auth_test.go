package services

import (
	"context"
	"testing"
	"time"

	"venture_claims_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuth(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	err = conn.AutoMigrate(&models.User{}, &models.Session{})
	assert.NoError(t, err)
	return NewAuthService(conn), conn
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword("secret123", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestAuthenticateRegisteredUser(t *testing.T) {
	svc, _ := setupAuth(t)

	created, err := svc.CreateUser(context.Background(), "Avery Chen", "avery@ventureclaims.com", "pass1234", "user")
	assert.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "avery@ventureclaims.com", "pass1234")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotNil(t, user.LastLoginAt)

	_, err = svc.Authenticate(context.Background(), "avery@ventureclaims.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateInactiveUser(t *testing.T) {
	svc, db := setupAuth(t)

	user, err := svc.CreateUser(context.Background(), "Gone User", "gone@ventureclaims.com", "pass1234", "user")
	assert.NoError(t, err)
	assert.NoError(t, db.Model(user).UpdateColumn("is_active", false).Error)

	_, err = svc.Authenticate(context.Background(), "gone@ventureclaims.com", "pass1234")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestDemoLoginProvisionsOnEmptyTable(t *testing.T) {
	svc, db := setupAuth(t)

	user, err := svc.Authenticate(context.Background(), DemoEmail, DemoPassword)
	assert.NoError(t, err)
	assert.Equal(t, DemoEmail, user.Email)

	var count int64
	assert.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Second login hits the persisted account
	again, err := svc.Authenticate(context.Background(), DemoEmail, DemoPassword)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestDemoLoginRejectedOncePopulated(t *testing.T) {
	svc, _ := setupAuth(t)

	_, err := svc.CreateUser(context.Background(), "Real User", "real@ventureclaims.com", "pass1234", "admin")
	assert.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), DemoEmail, DemoPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessionLifecycle(t *testing.T) {
	svc, _ := setupAuth(t)

	user, err := svc.CreateUser(context.Background(), "Avery Chen", "avery@ventureclaims.com", "pass1234", "user")
	assert.NoError(t, err)

	session, err := svc.CreateSession(context.Background(), user.ID, "127.0.0.1", "test-agent")
	assert.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	resolved, err := svc.ValidateSession(context.Background(), session.Token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	assert.NoError(t, svc.DeleteSession(context.Background(), session.Token))
	_, err = svc.ValidateSession(context.Background(), session.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestValidateSessionExpired(t *testing.T) {
	svc, db := setupAuth(t)

	user, err := svc.CreateUser(context.Background(), "Avery Chen", "avery@ventureclaims.com", "pass1234", "user")
	assert.NoError(t, err)

	session, err := svc.CreateSession(context.Background(), user.ID, "", "")
	assert.NoError(t, err)
	assert.NoError(t, db.Model(&models.Session{}).
		Where("id = ?", session.ID).
		UpdateColumn("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = svc.ValidateSession(context.Background(), session.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestCleanupExpiredSessions(t *testing.T) {
	svc, db := setupAuth(t)

	user, err := svc.CreateUser(context.Background(), "Avery Chen", "avery@ventureclaims.com", "pass1234", "user")
	assert.NoError(t, err)

	live, err := svc.CreateSession(context.Background(), user.ID, "", "")
	assert.NoError(t, err)
	stale, err := svc.CreateSession(context.Background(), user.ID, "", "")
	assert.NoError(t, err)
	assert.NoError(t, db.Model(&models.Session{}).
		Where("id = ?", stale.ID).
		UpdateColumn("expires_at", time.Now().Add(-time.Hour)).Error)

	assert.NoError(t, svc.CleanupExpiredSessions(context.Background()))

	var remaining []models.Session
	assert.NoError(t, db.Find(&remaining).Error)
	assert.Len(t, remaining, 1)
	assert.Equal(t, live.ID, remaining[0].ID)
}
