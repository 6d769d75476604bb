package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/store"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAccessDenied     = errors.New("you do not have access to this task")
	ErrTitleRequired        = errors.New("title is required")
	ErrDueDateRequired      = errors.New("due date is required")
	ErrInvalidPriority      = errors.New("invalid task priority")
	ErrAssigneeNotFound     = errors.New("assigned user not found")
	ErrAssigneeInactive     = errors.New("assigned user is inactive")
	ErrMilestoneNotFound    = errors.New("milestone not found on this task type")
	ErrInvalidTaskReference = errors.New("referenced client or task type does not exist")
)

// TaskService handles task related business logic. It validates input and
// enforces roles before handing records to the store.
type TaskService struct {
	store *store.Store
	log   logrus.FieldLogger
}

func NewTaskService(s *store.Store, log logrus.FieldLogger) *TaskService {
	return &TaskService{store: s, log: log}
}

type CreateTaskInput struct {
	Title          string
	Description    string
	TaskTypeID     string
	ClientID       string
	AssignedToID   string
	AssignedUsers  []string
	Priority       models.TaskPriority
	DueDate        time.Time
	EstimatedHours float64
}

type UpdateTaskInput struct {
	Title          *string
	Description    *string
	TaskTypeID     *string
	ClientID       *string
	AssignedToID   *string
	AssignedUsers  *[]string
	Priority       *models.TaskPriority
	DueDate        *time.Time
	EstimatedHours *float64
	ActualHours    *float64
}

// TaskFilter narrows ListTasks. Empty fields match everything.
type TaskFilter struct {
	Status     models.TaskStatus
	Priority   models.TaskPriority
	ClientID   string
	TaskTypeID string
	AssigneeID string
	Search     string
	Mine       bool
	Overdue    bool
}

// Now is the clock tasks are judged against.
func (s *TaskService) Now() time.Time {
	return s.store.Now()
}

// CanView reports whether actor may see task: administrators see
// everything, others only tasks they own or assigned.
func CanView(actor models.User, task models.Task) bool {
	return actor.IsAdmin() || task.IsAssignee(actor.ID) || task.AssignedByID == actor.ID
}

// ListTasks returns the tasks visible to actor that match filter, most
// urgent due date first.
func (s *TaskService) ListTasks(actor models.User, filter TaskFilter) []models.Task {
	now := s.store.Now()
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var out []models.Task
	for _, t := range s.store.Tasks() {
		if !CanView(actor, t) {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if filter.ClientID != "" && t.ClientID != filter.ClientID {
			continue
		}
		if filter.TaskTypeID != "" && t.TaskTypeID != filter.TaskTypeID {
			continue
		}
		if filter.AssigneeID != "" && !t.IsAssignee(filter.AssigneeID) {
			continue
		}
		if filter.Mine && !t.IsAssignee(actor.ID) {
			continue
		}
		if filter.Overdue && !t.IsOverdue(now) {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].TaskNumber < out[j].TaskNumber
	})
	return out
}

func matchesSearch(t models.Task, needle string) bool {
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle) ||
		strings.Contains(strings.ToLower(t.TaskNumber), needle)
}

// GetTask returns the task when actor may see it.
func (s *TaskService) GetTask(actor models.User, id string) (*models.Task, error) {
	task, ok := s.store.Task(id)
	if !ok {
		return nil, ErrTaskNotFound
	}
	if !CanView(actor, task) {
		return nil, ErrTaskAccessDenied
	}
	return &task, nil
}

// CreateTask validates input and adds the task with actor as assigner.
func (s *TaskService) CreateTask(actor models.User, input CreateTaskInput) (*models.Task, error) {
	task := models.Task{
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		TaskTypeID:     input.TaskTypeID,
		ClientID:       input.ClientID,
		AssignedToID:   input.AssignedToID,
		AssignedUsers:  dedupe(input.AssignedUsers, input.AssignedToID),
		AssignedByID:   actor.ID,
		Status:         models.TaskStatusPending,
		Priority:       input.Priority,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if err := s.validate(task); err != nil {
		return nil, err
	}
	if task.EstimatedHours == 0 {
		if taskType, ok := s.store.TaskType(task.TaskTypeID); ok {
			task.EstimatedHours = taskType.EstimatedHours
		}
	}

	created, err := s.store.AddTask(task, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"task":     created.ID,
		"number":   created.TaskNumber,
		"assignee": created.AssignedToID,
	}).Info("Task created")
	return &created, nil
}

// UpdateTask edits task details. Status is changed through ChangeStatus.
// Switching the task type resets milestone progress. Only references the
// edit changes are checked, so tasks pointing at a deleted client or type
// stay editable.
func (s *TaskService) UpdateTask(actor models.User, id string, input UpdateTaskInput) (*models.Task, error) {
	current, ok := s.store.Task(id)
	if !ok {
		return nil, ErrTaskNotFound
	}
	if !actor.IsAdmin() {
		return nil, ErrTaskAccessDenied
	}

	merged := current
	patch := models.TaskPatch{
		Title:          trimmed(input.Title),
		Description:    trimmed(input.Description),
		TaskTypeID:     input.TaskTypeID,
		ClientID:       input.ClientID,
		AssignedToID:   input.AssignedToID,
		Priority:       input.Priority,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		ActualHours:    input.ActualHours,
	}
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.AssignedToID != nil {
		merged.AssignedToID = *patch.AssignedToID
	}
	if input.AssignedUsers != nil {
		users := dedupe(*input.AssignedUsers, merged.AssignedToID)
		patch.AssignedUsers = &users
	}
	if patch.Priority != nil {
		merged.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		merged.DueDate = *patch.DueDate
	}
	if err := validateFields(merged); err != nil {
		return nil, err
	}

	if patch.ClientID != nil && *patch.ClientID != current.ClientID {
		if _, ok := s.store.Client(*patch.ClientID); !ok {
			return nil, ErrInvalidTaskReference
		}
	}
	if patch.TaskTypeID != nil && *patch.TaskTypeID != current.TaskTypeID {
		if _, ok := s.store.TaskType(*patch.TaskTypeID); !ok {
			return nil, ErrInvalidTaskReference
		}
	}
	var added []string
	if patch.AssignedToID != nil && *patch.AssignedToID != current.AssignedToID {
		added = append(added, *patch.AssignedToID)
	}
	if patch.AssignedUsers != nil {
		for _, uid := range *patch.AssignedUsers {
			if !current.IsAssignee(uid) {
				added = append(added, uid)
			}
		}
	}
	if err := s.checkAssignees(added); err != nil {
		return nil, err
	}

	if err := s.store.UpdateTask(id, patch, actor); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.GetTask(actor, id)
}

// ChangeStatus moves the task to next when the transition policy allows it.
// The policy is checked again against the stored task when it is written.
func (s *TaskService) ChangeStatus(actor models.User, id string, next models.TaskStatus, confirmed bool) (*models.Task, error) {
	task, ok := s.store.Task(id)
	if !ok {
		return nil, ErrTaskNotFound
	}
	if !CanView(actor, task) {
		return nil, ErrTaskAccessDenied
	}
	if err := CanTransition(actor, task, next, confirmed); err != nil {
		return nil, err
	}
	if next == task.Status {
		return &task, nil
	}

	check := func(t models.Task) error {
		if t.Status == next {
			return nil
		}
		return CanTransition(actor, t, next, confirmed)
	}
	if err := s.store.UpdateTaskChecked(id, models.TaskPatch{Status: &next}, actor, check); err != nil {
		if isPolicyError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to change task status: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"task": id,
		"from": task.Status,
		"to":   next,
		"by":   actor.ID,
	}).Info("Task status changed")
	return s.GetTask(actor, id)
}

// SetMilestoneCompletion marks one milestone of the task done or open and
// logs it on the task. Assignees may do this until the task is completed.
func (s *TaskService) SetMilestoneCompletion(actor models.User, taskID, milestoneID string, completed bool) (*models.Task, error) {
	check := func(t models.Task) error {
		if actor.IsAdmin() {
			return nil
		}
		if !t.IsAssignee(actor.ID) {
			return ErrNotTaskAssignee
		}
		if t.Status.Closed() {
			return ErrTaskLocked
		}
		return nil
	}

	task, err := s.store.SetMilestoneProgress(taskID, milestoneID, completed, actor, check)
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, store.ErrTaskNotFound):
		return nil, ErrTaskNotFound
	case errors.Is(err, store.ErrMilestoneNotFound):
		return nil, ErrMilestoneNotFound
	case isPolicyError(err):
		return nil, err
	default:
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}
}

func (s *TaskService) DeleteTask(id string) error {
	if _, ok := s.store.Task(id); !ok {
		return ErrTaskNotFound
	}
	if err := s.store.DeleteTask(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) validate(t models.Task) error {
	if err := validateFields(t); err != nil {
		return err
	}
	if _, ok := s.store.Client(t.ClientID); !ok {
		return ErrInvalidTaskReference
	}
	if _, ok := s.store.TaskType(t.TaskTypeID); !ok {
		return ErrInvalidTaskReference
	}
	return s.checkAssignees(append([]string{t.AssignedToID}, t.AssignedUsers...))
}

func validateFields(t models.Task) error {
	if t.Title == "" {
		return ErrTitleRequired
	}
	if t.DueDate.IsZero() {
		return ErrDueDateRequired
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// checkAssignees requires every id to name an active user.
func (s *TaskService) checkAssignees(ids []string) error {
	for _, id := range ids {
		user, ok := s.store.User(id)
		if !ok {
			return ErrAssigneeNotFound
		}
		if !user.IsActive {
			return ErrAssigneeInactive
		}
	}
	return nil
}

// dedupe drops empty ids, repeats and the primary assignee from ids.
func dedupe(ids []string, primary string) []string {
	seen := map[string]struct{}{primary: {}}
	out := []string{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
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

// Dashboard summarises the tasks visible to one user.
type Dashboard struct {
	TotalTasks          int                       `json:"totalTasks"`
	ByStatus            map[models.TaskStatus]int `json:"byStatus"`
	OverdueTasks        int                       `json:"overdueTasks"`
	DueThisWeek         int                       `json:"dueThisWeek"`
	UnreadNotifications int                       `json:"unreadNotifications"`
	UnreadMessages      int                       `json:"unreadMessages"`
}

func (s *TaskService) Dashboard(actor models.User) Dashboard {
	now := s.store.Now()
	weekAhead := now.AddDate(0, 0, 7)
	d := Dashboard{
		ByStatus: map[models.TaskStatus]int{
			models.TaskStatusPending:    0,
			models.TaskStatusInProgress: 0,
			models.TaskStatusCompleted:  0,
			models.TaskStatusApproved:   0,
			models.TaskStatusRejected:   0,
		},
		UnreadNotifications: s.store.UnreadNotificationCount(actor.ID),
	}

	for _, t := range s.ListTasks(actor, TaskFilter{}) {
		d.TotalTasks++
		d.ByStatus[t.Status]++
		if t.IsOverdue(now) {
			d.OverdueTasks++
		} else if !t.Status.Closed() && t.DueDate.Before(weekAhead) {
			d.DueThisWeek++
		}
		d.UnreadMessages += s.store.UnreadMessageCount(t.ID, actor.ID)
	}
	return d
}
