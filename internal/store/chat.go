package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/models"
)

func chatKey(taskID string) string {
	return constants.StorageKeyChatPrefix + taskID
}

func lastReadKey(taskID, userID string) string {
	return constants.StorageKeyLastReadPrefix + taskID + "_" + userID
}

// ChatMessages returns the task's chat log in posting order.
func (s *Store) ChatMessages(taskID string) []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return loadSlot[models.ChatMessage](s, chatKey(taskID))
}

// AddChatMessage appends msg to the task's chat log and notifies the task's
// participants other than the sender.
func (s *Store) AddChatMessage(msg models.ChatMessage) (models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(msg.TaskID)
	if i < 0 {
		return models.ChatMessage{}, ErrTaskNotFound
	}
	task := s.tasks[i]

	msg.ID = s.newID()
	msg.Timestamp = s.now()

	thread := loadSlot[models.ChatMessage](s, chatKey(msg.TaskID))
	thread = append(thread, msg)
	if err := s.persist(chatKey(msg.TaskID), thread); err != nil {
		return msg, err
	}

	return msg, s.emit(s.gen.ChatMessage(task, msg, s.users))
}

// MarkChatRead records that userID has seen the task's chat up to now. The
// marker is stored as a bare ISO-8601 timestamp, not a JSON document.
func (s *Store) MarkChatRead(taskID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lastReadKey(taskID, userID)
	if err := s.repo.Set(key, s.now().UTC().Format(time.RFC3339Nano)); err != nil {
		s.log.WithError(err).WithField("key", key).Error("Failed to persist read marker")
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

// LastRead returns when userID last opened the task's chat.
func (s *Store) LastRead(taskID, userID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReadLocked(taskID, userID)
}

func (s *Store) lastReadLocked(taskID, userID string) (time.Time, bool) {
	raw, found, err := s.repo.Get(lastReadKey(taskID, userID))
	if err != nil || !found {
		return time.Time{}, false
	}
	stamp := strings.TrimSpace(raw)
	if strings.HasPrefix(stamp, `"`) {
		// quoted markers written by earlier builds
		var unquoted string
		if err := decodeStrict(stamp, &unquoted); err != nil {
			return time.Time{}, false
		}
		stamp = unquoted
	}
	t, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// UnreadMessageCount counts messages by other users posted after userID
// last opened the task's chat.
func (s *Store) UnreadMessageCount(taskID, userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lastRead, seen := s.lastReadLocked(taskID, userID)
	count := 0
	for _, m := range loadSlot[models.ChatMessage](s, chatKey(taskID)) {
		if m.UserID == userID {
			continue
		}
		if !seen || m.Timestamp.After(lastRead) {
			count++
		}
	}
	return count
}

// ChatTaskIDs lists the ids of tasks with a saved chat log, including tasks
// that have since been deleted.
func (s *Store) ChatTaskIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys, err := s.repo.Keys(constants.StorageKeyChatPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat logs: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, constants.StorageKeyLastReadPrefix) {
			continue
		}
		ids = append(ids, strings.TrimPrefix(key, constants.StorageKeyChatPrefix))
	}
	return ids, nil
}
