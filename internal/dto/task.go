package dto

import (
	"time"

	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/utils"
)

// Directory resolves ids referenced by tasks to display names.
type Directory struct {
	Users     []models.User
	Clients   []models.Client
	TaskTypes []models.TaskType
}

func (d Directory) userName(id string) string {
	for _, u := range d.Users {
		if u.ID == id {
			return u.Name
		}
	}
	return constants.UnknownUserName
}

func (d Directory) clientName(id string) string {
	for _, c := range d.Clients {
		if c.ID == id {
			return c.Name
		}
	}
	return constants.UnknownClientName
}

func (d Directory) taskType(id string) (models.TaskType, bool) {
	for _, t := range d.TaskTypes {
		if t.ID == id {
			return t, true
		}
	}
	return models.TaskType{}, false
}

// UserRefDTO is a user id paired with its display name.
type UserRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MilestoneDTO is a milestone of the task's type with this task's progress.
type MilestoneDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Order       int        `json:"order"`
	IsRequired  bool       `json:"isRequired"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CompletedBy string     `json:"completedBy,omitempty"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                string                 `json:"id"`
	TaskNumber        string                 `json:"taskNumber"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	TaskTypeID        string                 `json:"taskTypeId"`
	TaskTypeName      string                 `json:"taskTypeName"`
	ClientID          string                 `json:"clientId"`
	ClientName        string                 `json:"clientName"`
	AssignedTo        UserRefDTO             `json:"assignedTo"`
	AssignedUsers     []UserRefDTO           `json:"assignedUsers"`
	AssignedBy        UserRefDTO             `json:"assignedBy"`
	Status            models.TaskStatus      `json:"status"`
	NextStatuses      []models.TaskStatus    `json:"nextStatuses"`
	Priority          models.TaskPriority    `json:"priority"`
	DueDate           time.Time              `json:"dueDate"`
	IsOverdue         bool                   `json:"isOverdue"`
	EstimatedHours    float64                `json:"estimatedHours"`
	ActualHours       float64                `json:"actualHours"`
	CompletionPercent int                    `json:"completionPercent"`
	Milestones        []MilestoneDTO         `json:"milestones"`
	ActivityLog       []models.ActivityEntry `json:"activityLog,omitempty"`
	UnreadMessages    int                    `json:"unreadMessages"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         *time.Time             `json:"updatedAt,omitempty"`
}

// TaskView carries the per-caller facts ToTaskDTO cannot derive itself.
type TaskView struct {
	Now            time.Time
	NextStatuses   []models.TaskStatus
	UnreadMessages int
	WithActivity   bool
}

func ToTaskDTO(task models.Task, dir Directory, view TaskView) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		TaskNumber:     task.TaskNumber,
		Title:          task.Title,
		Description:    task.Description,
		TaskTypeID:     task.TaskTypeID,
		TaskTypeName:   constants.UnknownTypeName,
		ClientID:       task.ClientID,
		ClientName:     dir.clientName(task.ClientID),
		AssignedTo:     UserRefDTO{ID: task.AssignedToID, Name: dir.userName(task.AssignedToID)},
		AssignedUsers:  make([]UserRefDTO, 0, len(task.AssignedUsers)),
		AssignedBy:     UserRefDTO{ID: task.AssignedByID, Name: dir.userName(task.AssignedByID)},
		Status:         task.Status,
		NextStatuses:   view.NextStatuses,
		Priority:       task.Priority,
		DueDate:        task.DueDate,
		IsOverdue:      task.IsOverdue(view.Now),
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		Milestones:     []MilestoneDTO{},
		UnreadMessages: view.UnreadMessages,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
	if dto.NextStatuses == nil {
		dto.NextStatuses = []models.TaskStatus{}
	}
	for _, id := range task.AssignedUsers {
		dto.AssignedUsers = append(dto.AssignedUsers, UserRefDTO{ID: id, Name: dir.userName(id)})
	}
	if view.WithActivity {
		dto.ActivityLog = task.ActivityLog
	}

	taskType, ok := dir.taskType(task.TaskTypeID)
	if !ok {
		return dto
	}
	dto.TaskTypeName = taskType.Name
	dto.CompletionPercent = task.CompletionPercent(taskType)

	progress := make(map[string]models.MilestoneProgress, len(task.MilestoneProgress))
	for _, p := range task.MilestoneProgress {
		progress[p.MilestoneID] = p
	}
	for _, m := range taskType.SortedMilestones() {
		item := MilestoneDTO{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			Order:       m.Order,
			IsRequired:  m.IsRequired,
		}
		if p, ok := progress[m.ID]; ok && p.Completed {
			item.Completed = true
			item.CompletedAt = p.CompletedAt
			if p.CompletedByID != "" {
				item.CompletedBy = dir.userName(p.CompletedByID)
			}
		}
		dto.Milestones = append(dto.Milestones, item)
	}
	return dto
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}
