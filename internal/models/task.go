package models

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusApproved   TaskStatus = "approved"
	TaskStatusRejected   TaskStatus = "rejected"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusApproved, TaskStatusRejected:
		return true
	}
	return false
}

// Closed reports whether the task no longer counts towards overdue work.
func (s TaskStatus) Closed() bool {
	return s == TaskStatusCompleted || s == TaskStatusApproved
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type MilestoneProgress struct {
	MilestoneID   string     `json:"milestoneId"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CompletedByID string     `json:"completedById,omitempty"`
}

type ActivityEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

type Task struct {
	ID                string              `json:"id"`
	TaskNumber        string              `json:"taskNumber"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	TaskTypeID        string              `json:"taskTypeId"`
	ClientID          string              `json:"clientId"`
	AssignedToID      string              `json:"assignedToId"`
	AssignedUsers     []string            `json:"assignedUsers"`
	AssignedByID      string              `json:"assignedById"`
	Status            TaskStatus          `json:"status"`
	Priority          TaskPriority        `json:"priority"`
	DueDate           time.Time           `json:"dueDate"`
	EstimatedHours    float64             `json:"estimatedHours"`
	ActualHours       float64             `json:"actualHours"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         *time.Time          `json:"updatedAt,omitempty"`
	MilestoneProgress []MilestoneProgress `json:"milestoneProgress"`
	ActivityLog       []ActivityEntry     `json:"activityLog"`
}

// IsAssignee reports whether userID is the primary or an additional owner.
func (t Task) IsAssignee(userID string) bool {
	if t.AssignedToID == userID {
		return true
	}
	for _, id := range t.AssignedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// Assignees lists the primary owner followed by additional owners, without
// duplicates or empty ids.
func (t Task) Assignees() []string {
	seen := make(map[string]struct{}, len(t.AssignedUsers)+1)
	out := make([]string, 0, len(t.AssignedUsers)+1)
	for _, id := range append([]string{t.AssignedToID}, t.AssignedUsers...) {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (t Task) IsOverdue(now time.Time) bool {
	return !t.DueDate.IsZero() && t.DueDate.Before(now) && !t.Status.Closed()
}

// CompletionPercent is the share of the type's milestones marked complete,
// rounded down. Progress for milestones no longer on the type is ignored.
func (t Task) CompletionPercent(taskType TaskType) int {
	if len(taskType.Milestones) == 0 {
		return 0
	}
	done := 0
	for _, p := range t.MilestoneProgress {
		if p.Completed && taskType.HasMilestone(p.MilestoneID) {
			done++
		}
	}
	return done * 100 / len(taskType.Milestones)
}

// TaskPatch is a shallow partial update. Slice fields replace the stored
// value wholesale.
type TaskPatch struct {
	Title             *string
	Description       *string
	TaskTypeID        *string
	ClientID          *string
	AssignedToID      *string
	AssignedUsers     *[]string
	Status            *TaskStatus
	Priority          *TaskPriority
	DueDate           *time.Time
	EstimatedHours    *float64
	ActualHours       *float64
	MilestoneProgress *[]MilestoneProgress
	ActivityLog       *[]ActivityEntry
}
