package services

import (
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/store"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrNameRequired      = errors.New("name is required")
	ErrEmailRequired     = errors.New("email is required")
	ErrInvalidEmail      = errors.New("email is not valid")
	ErrEmailTaken        = errors.New("email already exists")
	ErrPasswordTooShort  = errors.New("password too short")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidUserStatus = errors.New("invalid user status")
	ErrCannotDeleteSelf  = errors.New("users cannot delete their own account")
)

type UserService struct {
	store *store.Store
}

func NewUserService(s *store.Store) *UserService {
	return &UserService{store: s}
}

type CreateUserInput struct {
	Name       string
	Email      string
	Password   string
	Role       models.UserRole
	Department string
}

type UpdateUserInput struct {
	Name       *string
	Email      *string
	Password   *string
	Role       *models.UserRole
	Status     *models.UserStatus
	Department *string
}

// ListUsers returns all users sorted by name.
func (s *UserService) ListUsers() []models.User {
	users := s.store.Users()
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
	})
	return users
}

func (s *UserService) GetUser(id string) (*models.User, error) {
	user, ok := s.store.User(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// CreateUser validates input and adds the user. Nothing is written when
// validation fails.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email, err := s.validateEmail(input.Email, "")
	if err != nil {
		return nil, err
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, ErrInvalidRole
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.AddUser(models.User{
		Name:       name,
		Email:      email,
		Role:       role,
		Status:     models.UserStatusActive,
		Department: strings.TrimSpace(input.Department),
		Password:   hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (s *UserService) UpdateUser(id string, input UpdateUserInput) (*models.User, error) {
	if _, ok := s.store.User(id); !ok {
		return nil, ErrUserNotFound
	}

	var patch models.UserPatch
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		patch.Name = &name
	}
	if input.Email != nil {
		email, err := s.validateEmail(*input.Email, id)
		if err != nil {
			return nil, err
		}
		patch.Email = &email
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hash
	}
	if input.Role != nil {
		if *input.Role != models.RoleAdmin && *input.Role != models.RoleUser {
			return nil, ErrInvalidRole
		}
		patch.Role = input.Role
	}
	if input.Status != nil {
		if *input.Status != models.UserStatusActive && *input.Status != models.UserStatusInactive {
			return nil, ErrInvalidUserStatus
		}
		patch.Status = input.Status
	}
	if input.Department != nil {
		department := strings.TrimSpace(*input.Department)
		patch.Department = &department
	}

	if err := s.store.UpdateUser(id, patch); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.GetUser(id)
}

func (s *UserService) DeleteUser(id string, actor models.User) error {
	if id == actor.ID {
		return ErrCannotDeleteSelf
	}
	if _, ok := s.store.User(id); !ok {
		return ErrUserNotFound
	}
	if err := s.store.DeleteUser(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// validateEmail normalizes email and checks it is unique among all users
// other than exceptID, active or not. The store repeats the uniqueness
// check under its lock when the user is written.
func (s *UserService) validateEmail(raw, exceptID string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ErrEmailRequired
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	if existing, ok := s.store.UserByEmail(email); ok && existing.ID != exceptID {
		return "", ErrEmailTaken
	}
	return email, nil
}
