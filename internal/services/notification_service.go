package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/store"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService exposes a user's own notifications. Records that
// belong to someone else are reported as not found.
type NotificationService struct {
	store *store.Store
}

func NewNotificationService(s *store.Store) *NotificationService {
	return &NotificationService{store: s}
}

func (s *NotificationService) List(actor models.User, unreadOnly bool) []models.Notification {
	all := s.store.Notifications(actor.ID)
	if !unreadOnly {
		return all
	}
	out := make([]models.Notification, 0, len(all))
	for _, n := range all {
		if !n.IsRead {
			out = append(out, n)
		}
	}
	return out
}

func (s *NotificationService) UnreadCount(actor models.User) int {
	return s.store.UnreadNotificationCount(actor.ID)
}

func (s *NotificationService) owned(actor models.User, id string) error {
	n, ok := s.store.Notification(id)
	if !ok || n.UserID != actor.ID {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkRead(actor models.User, id string) error {
	if err := s.owned(actor, id); err != nil {
		return err
	}
	if err := s.store.MarkNotificationAsRead(id); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(actor models.User) error {
	if err := s.store.MarkAllNotificationsAsRead(actor.ID); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}

func (s *NotificationService) Delete(actor models.User, id string) error {
	if err := s.owned(actor, id); err != nil {
		return err
	}
	if err := s.store.DeleteNotification(id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *NotificationService) Clear(actor models.User) error {
	if err := s.store.ClearNotifications(actor.ID); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}
