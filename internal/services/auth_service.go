package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthMode string

const (
	// AuthModePassword checks the bcrypt hash stored on the user
	AuthModePassword AuthMode = "password"
	// AuthModeBypass accepts any password for an existing active user
	AuthModeBypass AuthMode = "bypass"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserInactive         = errors.New("user account is inactive")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	store *store.Store
	mode  AuthMode
	log   logrus.FieldLogger
}

// NewAuthService creates a new AuthService. Unknown modes fall back to
// password checking.
func NewAuthService(s *store.Store, mode AuthMode, log logrus.FieldLogger) *AuthService {
	if mode != AuthModeBypass {
		mode = AuthModePassword
	}
	return &AuthService{
		store: s,
		mode:  mode,
		log:   log,
	}
}

func (s *AuthService) Mode() AuthMode {
	return s.mode
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials, stamps lastLogin and records the session
// slot. Inactive users are always rejected.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, ok := s.store.UserByEmail(input.Email)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if s.mode == AuthModePassword {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	now := s.store.Now()
	if err := s.store.UpdateUser(user.ID, models.UserPatch{LastLogin: &now}); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &now

	if err := s.store.SetCurrentUser(user); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user": user.ID, "mode": s.mode}).Info("User logged in")
	return &user, nil
}

// Logout clears the session slot.
func (s *AuthService) Logout() error {
	return s.store.ClearCurrentUser()
}

// GetUser retrieves an active user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, ok := s.store.User(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return &user, nil
}

// SeedAdmin creates an administrator when no users exist yet.
func (s *AuthService) SeedAdmin(email, password string) (*models.User, error) {
	if len(s.store.Users()) > 0 {
		return nil, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.AddUser(models.User{
		Name:     "Administrator",
		Email:    strings.TrimSpace(email),
		Role:     models.RoleAdmin,
		Status:   models.UserStatusActive,
		Password: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed administrator: %w", err)
	}

	s.log.WithField("email", user.Email).Warn("Seeded default administrator")
	return &user, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}
