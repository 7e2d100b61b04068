package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"venture_claims_go/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// SessionDuration is how long a session remains valid
	SessionDuration = 7 * 24 * time.Hour

	// Demo credentials accepted while the user table is empty, so a fresh
	// install is usable before anyone runs create-user.
	DemoEmail    = "demo@ventureclaims.com"
	DemoPassword = "demo1234"
	demoFullName = "Demo User"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionInvalid     = errors.New("session invalid")
)

// AuthService handles authentication and session management
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password against its hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticate verifies credentials and returns the user. When no users are
// registered yet, the built-in demo credentials provision a demo account.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		return s.tryDemoLogin(ctx, email, password)
	}

	if !CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).UpdateColumn("last_login_at", now).Error; err != nil {
		log.Printf("[WARNING] Failed to stamp last login for %s: %v", user.Email, err)
	}
	user.LastLoginAt = &now
	return &user, nil
}

// tryDemoLogin accepts the demo credentials only while the user table is
// empty, creating the demo account on first use.
func (s *AuthService) tryDemoLogin(ctx context.Context, email, password string) (*models.User, error) {
	if email != DemoEmail || password != DemoPassword {
		return nil, ErrInvalidCredentials
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil, ErrInvalidCredentials
	}

	hash, err := HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}
	user := models.User{
		FullName: demoFullName,
		Email:    DemoEmail,
		Password: hash,
		Role:     "admin",
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to provision demo user: %w", err)
	}
	log.Println("Demo user provisioned on first login")
	return &user, nil
}

// CreateSession issues a new session token for a user
func (s *AuthService) CreateSession(ctx context.Context, userID, ipAddress, userAgent string) (*models.Session, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, err
	}

	session := models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(SessionDuration),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session, nil
}

// ValidateSession resolves a token to its user, rejecting expired sessions
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	var session models.Session
	err := s.db.WithContext(ctx).Preload("User").First(&session, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if session.IsExpired() {
		// Expired sessions are removed eagerly; the cleanup loop catches
		// the rest.
		s.db.WithContext(ctx).Delete(&session)
		return nil, ErrSessionExpired
	}
	if !session.User.IsActive {
		return nil, ErrUserInactive
	}
	return &session.User, nil
}

// DeleteSession invalidates a session token (logout)
func (s *AuthService) DeleteSession(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token).Error
}

// CleanupExpiredSessions removes sessions past their expiry
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) error {
	result := s.db.WithContext(ctx).Delete(&models.Session{}, "expires_at < ?", time.Now())
	if result.Error != nil {
		return fmt.Errorf("failed to clean up sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d expired sessions", result.RowsAffected)
	}
	return nil
}

// CreateUser registers a new user with a hashed password
func (s *AuthService) CreateUser(ctx context.Context, fullName, email, password, role string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = "user"
	}
	user := models.User{
		FullName: fullName,
		Email:    email,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func generateSessionToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
