package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/store"
)

var (
	ErrMessageRequired = errors.New("message is required")
	ErrUnknownMention  = errors.New("mentioned user not found")
)

type ChatService struct {
	store *store.Store
}

func NewChatService(s *store.Store) *ChatService {
	return &ChatService{store: s}
}

type PostMessageInput struct {
	Message  string
	Mentions []string
}

func (s *ChatService) task(actor models.User, taskID string) (models.Task, error) {
	task, ok := s.store.Task(taskID)
	if !ok {
		return models.Task{}, ErrTaskNotFound
	}
	if !CanView(actor, task) {
		return models.Task{}, ErrTaskAccessDenied
	}
	return task, nil
}

// ListMessages returns the task's chat log and records it as read by actor.
func (s *ChatService) ListMessages(actor models.User, taskID string) ([]models.ChatMessage, error) {
	if _, err := s.task(actor, taskID); err != nil {
		return nil, err
	}
	messages := s.store.ChatMessages(taskID)
	if err := s.store.MarkChatRead(taskID, actor.ID); err != nil {
		return nil, fmt.Errorf("failed to mark chat as read: %w", err)
	}
	return messages, nil
}

func (s *ChatService) PostMessage(actor models.User, taskID string, input PostMessageInput) (*models.ChatMessage, error) {
	if _, err := s.task(actor, taskID); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(input.Message)
	if text == "" {
		return nil, ErrMessageRequired
	}
	mentions := dedupe(input.Mentions, "")
	for _, id := range mentions {
		if _, ok := s.store.User(id); !ok {
			return nil, ErrUnknownMention
		}
	}

	msg, err := s.store.AddChatMessage(models.ChatMessage{
		TaskID:   taskID,
		UserID:   actor.ID,
		Message:  text,
		Mentions: mentions,
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to post message: %w", err)
	}
	return &msg, nil
}

func (s *ChatService) UnreadCount(actor models.User, taskID string) (int, error) {
	if _, err := s.task(actor, taskID); err != nil {
		return 0, err
	}
	return s.store.UnreadMessageCount(taskID, actor.ID), nil
}

// ChatThread summarises one task chat for the inbox.
type ChatThread struct {
	TaskID        string     `json:"taskId"`
	TaskNumber    string     `json:"taskNumber"`
	TaskTitle     string     `json:"taskTitle"`
	MessageCount  int        `json:"messageCount"`
	Unread        int        `json:"unread"`
	LastMessageAt time.Time  `json:"lastMessageAt"`
	LastReadAt    *time.Time `json:"lastReadAt,omitempty"`
}

// Threads lists the chats of tasks actor can see, most recent first. Chats
// of deleted tasks are left out.
func (s *ChatService) Threads(actor models.User) ([]ChatThread, error) {
	ids, err := s.store.ChatTaskIDs()
	if err != nil {
		return nil, err
	}

	threads := make([]ChatThread, 0, len(ids))
	for _, id := range ids {
		task, ok := s.store.Task(id)
		if !ok || !CanView(actor, task) {
			continue
		}
		messages := s.store.ChatMessages(id)
		if len(messages) == 0 {
			continue
		}
		thread := ChatThread{
			TaskID:        task.ID,
			TaskNumber:    task.TaskNumber,
			TaskTitle:     task.Title,
			MessageCount:  len(messages),
			Unread:        s.store.UnreadMessageCount(id, actor.ID),
			LastMessageAt: messages[len(messages)-1].Timestamp,
		}
		if at, ok := s.store.LastRead(id, actor.ID); ok {
			thread.LastReadAt = &at
		}
		threads = append(threads, thread)
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].LastMessageAt.After(threads[j].LastMessageAt)
	})
	return threads, nil
}
