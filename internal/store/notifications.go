package store

import (
	"sort"

	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/models"
)

// emit appends generated notifications and persists the collection.
// Callers hold the write lock.
func (s *Store) emit(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	s.notifications = append(s.notifications, notifications...)
	return s.persist(constants.StorageKeyNotifications, s.notifications)
}

// Notifications returns the recipient's notifications, newest first.
func (s *Store) Notifications(userID string) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := filter(s.notifications, func(n models.Notification) bool { return n.UserID == userID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

func (s *Store) Notification(id string) (models.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notifications {
		if n.ID == id {
			return n, true
		}
	}
	return models.Notification{}, false
}

func (s *Store) UnreadNotificationCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count
}

func (s *Store) MarkNotificationAsRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			if s.notifications[i].IsRead {
				return nil
			}
			s.notifications[i].IsRead = true
			return s.persist(constants.StorageKeyNotifications, s.notifications)
		}
	}
	return nil
}

// MarkAllNotificationsAsRead is idempotent: nothing is written when every
// notification of the user is already read.
func (s *Store) MarkAllNotificationsAsRead(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for i := range s.notifications {
		if s.notifications[i].UserID == userID && !s.notifications[i].IsRead {
			s.notifications[i].IsRead = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.persist(constants.StorageKeyNotifications, s.notifications)
}

func (s *Store) DeleteNotification(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = filter(s.notifications, func(n models.Notification) bool { return n.ID != id })
	return s.persist(constants.StorageKeyNotifications, s.notifications)
}

// ClearNotifications removes every notification addressed to userID.
func (s *Store) ClearNotifications(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = filter(s.notifications, func(n models.Notification) bool { return n.UserID != userID })
	return s.persist(constants.StorageKeyNotifications, s.notifications)
}
