package store

import (
	"errors"
	"strings"

	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/models"
)

var ErrEmailTaken = errors.New("email already exists")

// AddUser stamps id and creation time, appends the user and persists the
// collection. An empty status defaults to active. Emails are unique across
// all users, active or not.
func (s *Store) AddUser(user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTakenLocked(user.Email, "") {
		return models.User{}, ErrEmailTaken
	}

	user.ID = s.newID()
	user.CreatedAt = s.now()
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.IsActive = user.Status == models.UserStatusActive

	s.users = append(s.users, user)
	return user, s.persist(constants.StorageKeyUsers, s.users)
}

// UpdateUser merges patch into the user with id. Status and IsActive are
// kept consistent; when both are patched Status wins. Missing ids are
// ignored.
func (s *Store) UpdateUser(id string, patch models.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(id)
	if i < 0 {
		return nil
	}
	if patch.Email != nil && s.emailTakenLocked(*patch.Email, id) {
		return ErrEmailTaken
	}
	u := &s.users[i]

	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Department != nil {
		u.Department = *patch.Department
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.LastLogin != nil {
		t := *patch.LastLogin
		u.LastLogin = &t
	}
	switch {
	case patch.Status != nil:
		u.Status = *patch.Status
		u.IsActive = u.Status == models.UserStatusActive
	case patch.IsActive != nil:
		u.IsActive = *patch.IsActive
		if u.IsActive {
			u.Status = models.UserStatusActive
		} else {
			u.Status = models.UserStatusInactive
		}
	}

	return s.persist(constants.StorageKeyUsers, s.users)
}

// DeleteUser removes the user. Tasks referencing it keep the dangling id.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = filter(s.users, func(u models.User) bool { return u.ID != id })
	return s.persist(constants.StorageKeyUsers, s.users)
}

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.users)
}

func (s *Store) User(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.userIndex(id); i >= 0 {
		return s.users[i], true
	}
	return models.User{}, false
}

// UserByEmail finds a user by email, ignoring case and surrounding spaces.
func (s *Store) UserByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.TrimSpace(email)
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) emailTakenLocked(email, exceptID string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	for _, u := range s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *Store) userIndex(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

// SetCurrentUser writes the session slot without the password.
func (s *Store) SetCurrentUser(user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(constants.StorageKeyCurrentUser, user.WithoutPassword())
}

// CurrentUser reads the session slot.
func (s *Store) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, found, err := s.repo.Get(constants.StorageKeyCurrentUser)
	if err != nil {
		s.log.WithError(err).Error("Failed to read current user")
		return models.User{}, false
	}
	if !found {
		return models.User{}, false
	}
	var user models.User
	if err := decodeStrict(raw, &user); err != nil {
		s.log.WithError(err).Warn("Ignoring malformed current user")
		return models.User{}, false
	}
	return user, true
}

func (s *Store) ClearCurrentUser() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Delete(constants.StorageKeyCurrentUser)
}
