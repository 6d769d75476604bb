package models

import "time"

type NotificationType string

const (
	NotificationTask     NotificationType = "task"
	NotificationMessage  NotificationType = "message"
	NotificationSystem   NotificationType = "system"
	NotificationApproval NotificationType = "approval"
)

type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	IsRead    bool             `json:"isRead"`
	UserID    string           `json:"userId"`
	TaskID    string           `json:"taskId,omitempty"`
	Priority  TaskPriority     `json:"priority,omitempty"`
}
