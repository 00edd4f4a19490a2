package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"twibbon-campaign/models"
	"twibbon-campaign/repository"
)

const (
	// SettingAdminPassword holds the bcrypt hash of the admin password
	SettingAdminPassword = "admin_password"
	// DefaultAdminPassword is set when no password exists or after a reset
	DefaultAdminPassword = "admin123"
	MinPasswordLength    = 6

	// SessionCookieName carries the admin JWT
	SessionCookieName = "admin_session"
	SessionTTL        = 24 * time.Hour

	sessionSubject = "admin"
)

var (
	// ErrInvalidPassword is returned when a password does not match
	ErrInvalidPassword = errors.New("invalid password")
	// ErrWeakPassword is returned when a new password is too short
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	// ErrInvalidSession is returned for missing, expired or forged session tokens
	ErrInvalidSession = errors.New("invalid session")
	// ErrProtectedSetting is returned when the settings API addresses the password
	ErrProtectedSetting = errors.New("setting cannot be accessed directly")
)

// AdminServiceInterface defines the contract for admin authentication and settings
type AdminServiceInterface interface {
	EnsureDefaultPassword(ctx context.Context) error
	Login(ctx context.Context, password string) (string, time.Time, error)
	ParseSession(token string) error
	ChangePassword(ctx context.Context, current, next string) error
	ResetPassword(ctx context.Context) error
	ListSettings(ctx context.Context) ([]models.AdminSetting, error)
	GetSetting(ctx context.Context, key string) (*models.AdminSetting, error)
	UpdateSetting(ctx context.Context, key, value string) (*models.AdminSetting, error)
}

// AdminService authenticates the single admin account and manages settings
type AdminService struct {
	settings repository.AdminSettingRepositoryInterface
	secret   []byte
	now      func() time.Time
}

// Ensure AdminService implements AdminServiceInterface
var _ AdminServiceInterface = (*AdminService)(nil)

// NewAdminService creates a new AdminService signing sessions with secret
func NewAdminService(settings repository.AdminSettingRepositoryInterface, secret string) *AdminService {
	return &AdminService{settings: settings, secret: []byte(secret), now: time.Now}
}

// EnsureDefaultPassword stores the default password when none is set
func (s *AdminService) EnsureDefaultPassword(ctx context.Context) error {
	_, err := s.settings.Get(ctx, SettingAdminPassword)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	log.Printf("⚠️  No admin password found, initialising the default password")
	return s.setPassword(ctx, DefaultAdminPassword)
}

// Login checks password and returns a signed session token and its expiry
func (s *AdminService) Login(ctx context.Context, password string) (string, time.Time, error) {
	if err := s.EnsureDefaultPassword(ctx); err != nil {
		return "", time.Time{}, err
	}
	if err := s.checkPassword(ctx, password); err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	expires := now.Add(SessionTTL)
	claims := jwt.RegisteredClaims{
		Subject:   sessionSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	log.Printf("✓ Admin logged in")
	return token, expires, nil
}

// ParseSession validates a session token
func (s *AdminService) ParseSession(token string) error {
	if token == "" {
		return ErrInvalidSession
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(sessionSubject),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return nil
}

// ChangePassword replaces the password after verifying the current one
func (s *AdminService) ChangePassword(ctx context.Context, current, next string) error {
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}
	if err := s.checkPassword(ctx, current); err != nil {
		return err
	}
	if err := s.setPassword(ctx, next); err != nil {
		return err
	}
	log.Printf("🔄 Admin password changed")
	return nil
}

// ResetPassword restores the default password
func (s *AdminService) ResetPassword(ctx context.Context) error {
	if err := s.setPassword(ctx, DefaultAdminPassword); err != nil {
		return err
	}
	log.Printf("🔄 Admin password reset to default")
	return nil
}

// ListSettings returns every setting except the password hash
func (s *AdminService) ListSettings(ctx context.Context) ([]models.AdminSetting, error) {
	all, err := s.settings.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]models.AdminSetting, 0, len(all))
	for _, st := range all {
		if st.Key != SettingAdminPassword {
			visible = append(visible, st)
		}
	}
	return visible, nil
}

// GetSetting returns one setting
func (s *AdminService) GetSetting(ctx context.Context, key string) (*models.AdminSetting, error) {
	if key == SettingAdminPassword {
		return nil, ErrProtectedSetting
	}
	return s.settings.Get(ctx, key)
}

// UpdateSetting creates or replaces one setting
func (s *AdminService) UpdateSetting(ctx context.Context, key, value string) (*models.AdminSetting, error) {
	if key == SettingAdminPassword {
		return nil, ErrProtectedSetting
	}
	if key == "" {
		return nil, fmt.Errorf("setting key is required")
	}
	return s.settings.Upsert(ctx, key, value)
}

func (s *AdminService) checkPassword(ctx context.Context, password string) error {
	stored, err := s.settings.Get(ctx, SettingAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to load admin password: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Value), []byte(password)); err != nil {
		log.Printf("❌ Admin authentication failed")
		return ErrInvalidPassword
	}
	return nil
}

func (s *AdminService) setPassword(ctx context.Context, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := s.settings.Upsert(ctx, SettingAdminPassword, string(hash)); err != nil {
		return err
	}
	return nil
}
