// Package notify derives Notification records from record-store events.
// Every function is pure: it reads its arguments and returns new rows,
// leaving persistence to the caller.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/utils"
)

const (
	TitleTaskCreated       = "New task created"
	TitleTaskAssigned      = "Task assigned to you"
	TitleTaskUpdated       = "Task updated"
	TitleTaskCompleted     = "Task completed"
	TitleTaskOverdue       = "Task overdue"
	TitleMilestonesUpdated = "Task milestones updated"
)

// Generator stamps ids and timestamps on the notifications it builds.
type Generator struct {
	NewID func() string
	Now   func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{
		NewID: utils.NewID,
		Now:   time.Now,
	}
}

func (g *Generator) build(kind models.NotificationType, recipient, title, message string, task *models.Task, priority models.TaskPriority) models.Notification {
	n := models.Notification{
		ID:        g.NewID(),
		Type:      kind,
		Title:     title,
		Message:   message,
		Timestamp: g.Now(),
		UserID:    recipient,
		Priority:  priority,
	}
	if task != nil {
		n.TaskID = task.ID
	}
	return n
}

// TaskCreated notifies the primary assignee of a new task: once that it
// exists and once that it is theirs.
func (g *Generator) TaskCreated(task models.Task) []models.Notification {
	if task.AssignedToID == "" {
		return nil
	}
	return []models.Notification{
		g.build(models.NotificationTask, task.AssignedToID, TitleTaskCreated,
			fmt.Sprintf("Task %s %q has been created", task.TaskNumber, task.Title), &task, task.Priority),
		g.TaskAssigned(task)[0],
	}
}

func (g *Generator) TaskAssigned(task models.Task) []models.Notification {
	if task.AssignedToID == "" {
		return nil
	}
	return []models.Notification{
		g.build(models.NotificationTask, task.AssignedToID, TitleTaskAssigned,
			fmt.Sprintf("You have been assigned to task %s: %s", task.TaskNumber, task.Title), &task, task.Priority),
	}
}

// TaskStatusChanged tells the assigner about completions and the assignee
// about every other transition.
func (g *Generator) TaskStatusChanged(task models.Task, from models.TaskStatus) []models.Notification {
	if task.Status == from {
		return nil
	}
	if task.Status == models.TaskStatusCompleted {
		if task.AssignedByID == "" {
			return nil
		}
		return []models.Notification{
			g.build(models.NotificationApproval, task.AssignedByID, TitleTaskCompleted,
				fmt.Sprintf("Task %s %q has been completed and is awaiting approval", task.TaskNumber, task.Title), &task, task.Priority),
		}
	}
	if task.AssignedToID == "" {
		return nil
	}
	return []models.Notification{
		g.build(models.NotificationTask, task.AssignedToID, TitleTaskUpdated,
			fmt.Sprintf("Task %s status changed from %s to %s", task.TaskNumber, from, task.Status), &task, task.Priority),
	}
}

// Overdue returns one urgent notification per overdue task whose assignee
// has not already been told. Any existing notification for the same task and
// recipient with "overdue" in its title counts as already told.
func (g *Generator) Overdue(tasks []models.Task, existing []models.Notification, now time.Time) []models.Notification {
	var out []models.Notification
	for i := range tasks {
		task := tasks[i]
		if !task.IsOverdue(now) || task.AssignedToID == "" {
			continue
		}
		if alreadyWarned(existing, task.ID, task.AssignedToID) || alreadyWarned(out, task.ID, task.AssignedToID) {
			continue
		}
		out = append(out, g.build(models.NotificationSystem, task.AssignedToID, TitleTaskOverdue,
			fmt.Sprintf("Task %s %q was due on %s", task.TaskNumber, task.Title, task.DueDate.Format("2006-01-02")),
			&task, models.PriorityUrgent))
	}
	return out
}

func alreadyWarned(notifications []models.Notification, taskID, userID string) bool {
	for _, n := range notifications {
		if n.TaskID == taskID && n.UserID == userID && strings.Contains(strings.ToLower(n.Title), "overdue") {
			return true
		}
	}
	return false
}

// ChatMessage notifies the task's assignee and assigner, minus the sender,
// of a new message. Mentioned users outside that pair get a mention notice.
func (g *Generator) ChatMessage(task models.Task, msg models.ChatMessage, users []models.User) []models.Notification {
	sender := DisplayName(users, msg.UserID)
	body := fmt.Sprintf("%s: %s", sender, Preview(msg.Message, constants.MessagePreviewLength))

	notified := map[string]struct{}{msg.UserID: {}}
	var out []models.Notification
	for _, recipient := range []string{task.AssignedToID, task.AssignedByID} {
		if recipient == "" {
			continue
		}
		if _, ok := notified[recipient]; ok {
			continue
		}
		notified[recipient] = struct{}{}
		out = append(out, g.build(models.NotificationMessage, recipient,
			fmt.Sprintf("New message in %s", task.Title), body, &task, ""))
	}
	for _, recipient := range msg.Mentions {
		if recipient == "" {
			continue
		}
		if _, ok := notified[recipient]; ok {
			continue
		}
		notified[recipient] = struct{}{}
		out = append(out, g.build(models.NotificationMessage, recipient,
			fmt.Sprintf("You were mentioned in %s", task.Title), body, &task, ""))
	}
	return out
}

// MilestonesChanged notifies each user assigned to any task of taskType once.
func (g *Generator) MilestonesChanged(taskType models.TaskType, tasks []models.Task) []models.Notification {
	seen := make(map[string]struct{})
	var out []models.Notification
	for _, task := range tasks {
		if task.TaskTypeID != taskType.ID {
			continue
		}
		for _, userID := range task.Assignees() {
			if _, ok := seen[userID]; ok {
				continue
			}
			seen[userID] = struct{}{}
			out = append(out, g.build(models.NotificationSystem, userID, TitleMilestonesUpdated,
				fmt.Sprintf("Milestones for task type %q have changed; review your task progress", taskType.Name), nil, ""))
		}
	}
	return out
}

// Preview truncates s to limit runes, appending "..." when cut.
func Preview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// DisplayName resolves a user id to a name, falling back to a placeholder
// for ids that no longer exist.
func DisplayName(users []models.User, id string) string {
	for _, u := range users {
		if u.ID == id {
			return u.Name
		}
	}
	return constants.UnknownUserName
}
