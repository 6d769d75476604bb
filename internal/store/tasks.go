package store

import (
	"fmt"
	"time"

	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/models"
)

// AddTask assigns id, task number and creation time, seeds the activity log
// and notifies the assignee. actor becomes the assigner when AssignedByID is
// empty.
func (s *Store) AddTask(task models.Task, actor models.User) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.newID()
	task.TaskNumber = NextTaskNumber(s.tasks)
	task.CreatedAt = s.now()
	task.UpdatedAt = nil
	if task.AssignedByID == "" {
		task.AssignedByID = actor.ID
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.AssignedUsers == nil {
		task.AssignedUsers = []string{}
	}
	if task.MilestoneProgress == nil {
		task.MilestoneProgress = []models.MilestoneProgress{}
	}
	task.ActivityLog = []models.ActivityEntry{
		s.activity(actor, fmt.Sprintf("created the task and assigned it to %s", s.userName(task.AssignedToID))),
	}

	s.tasks = append(s.tasks, task)
	if err := s.persist(constants.StorageKeyTasks, s.tasks); err != nil {
		return cloneTask(task), err
	}

	if err := s.emit(s.gen.TaskCreated(task)); err != nil {
		return cloneTask(task), err
	}
	_, err := s.checkOverdueLocked(s.now())
	return cloneTask(task), err
}

// UpdateTask merges patch into the task. A status change appends one
// activity entry and notifies per the task event rules; a new primary
// assignee is told about the assignment. Missing ids are ignored.
//
// Moving the task to another type clears its milestone progress unless the
// patch carries its own, and the primary assignee is never kept among the
// additional ones.
func (s *Store) UpdateTask(id string, patch models.TaskPatch, actor models.User) error {
	return s.UpdateTaskChecked(id, patch, actor, nil)
}

// UpdateTaskChecked is UpdateTask with a precondition. check runs under the
// store lock against the current task and aborts the update when it returns
// an error. It must not call back into the store.
func (s *Store) UpdateTaskChecked(id string, patch models.TaskPatch, actor models.User, check func(models.Task) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return nil
	}
	t := &s.tasks[i]
	if check != nil {
		if err := check(cloneTask(*t)); err != nil {
			return err
		}
	}
	prevStatus := t.Status
	prevAssignee := t.AssignedToID
	prevType := t.TaskTypeID

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.TaskTypeID != nil {
		t.TaskTypeID = *patch.TaskTypeID
	}
	if patch.ClientID != nil {
		t.ClientID = *patch.ClientID
	}
	if patch.AssignedToID != nil {
		t.AssignedToID = *patch.AssignedToID
	}
	if patch.AssignedUsers != nil {
		t.AssignedUsers = cloneSlice(*patch.AssignedUsers)
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.EstimatedHours != nil {
		t.EstimatedHours = *patch.EstimatedHours
	}
	if patch.ActualHours != nil {
		t.ActualHours = *patch.ActualHours
	}
	if patch.MilestoneProgress != nil {
		t.MilestoneProgress = cloneSlice(*patch.MilestoneProgress)
	}
	if patch.ActivityLog != nil {
		t.ActivityLog = cloneSlice(*patch.ActivityLog)
	}
	if t.TaskTypeID != prevType && patch.MilestoneProgress == nil {
		t.MilestoneProgress = []models.MilestoneProgress{}
	}
	primary := t.AssignedToID
	t.AssignedUsers = filter(t.AssignedUsers, func(uid string) bool { return uid != primary })

	now := s.now()
	t.UpdatedAt = &now
	if t.Status != prevStatus {
		t.ActivityLog = append(t.ActivityLog,
			s.activity(actor, fmt.Sprintf("changed status from %s to %s", prevStatus, t.Status)))
	}

	if err := s.persist(constants.StorageKeyTasks, s.tasks); err != nil {
		return err
	}

	updated := *t
	var pending []models.Notification
	if updated.AssignedToID != prevAssignee {
		pending = append(pending, s.gen.TaskAssigned(updated)...)
	}
	pending = append(pending, s.gen.TaskStatusChanged(updated, prevStatus)...)
	if err := s.emit(pending); err != nil {
		return err
	}

	_, err := s.checkOverdueLocked(now)
	return err
}

// SetMilestoneProgress marks one milestone of the task's type done or open
// and records it in the activity log. check behaves as in UpdateTaskChecked.
func (s *Store) SetMilestoneProgress(taskID, milestoneID string, completed bool, actor models.User, check func(models.Task) error) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(taskID)
	if i < 0 {
		return models.Task{}, ErrTaskNotFound
	}
	t := &s.tasks[i]
	if check != nil {
		if err := check(cloneTask(*t)); err != nil {
			return models.Task{}, err
		}
	}

	milestone, ok := s.milestoneLocked(t.TaskTypeID, milestoneID)
	if !ok {
		return models.Task{}, ErrMilestoneNotFound
	}

	now := s.now()
	entry := models.MilestoneProgress{MilestoneID: milestoneID, Completed: completed}
	if completed {
		entry.CompletedAt = &now
		entry.CompletedByID = actor.ID
	}
	found := false
	for j := range t.MilestoneProgress {
		if t.MilestoneProgress[j].MilestoneID == milestoneID {
			t.MilestoneProgress[j] = entry
			found = true
		}
	}
	if !found {
		t.MilestoneProgress = append(t.MilestoneProgress, entry)
	}

	action := fmt.Sprintf("completed milestone %q", milestone.Name)
	if !completed {
		action = fmt.Sprintf("reopened milestone %q", milestone.Name)
	}
	t.ActivityLog = append(t.ActivityLog, s.activity(actor, action))
	t.UpdatedAt = &now

	updated := cloneTask(*t)
	if err := s.persist(constants.StorageKeyTasks, s.tasks); err != nil {
		return updated, err
	}
	_, err := s.checkOverdueLocked(now)
	return updated, err
}

func (s *Store) milestoneLocked(taskTypeID, milestoneID string) (models.Milestone, bool) {
	for _, tt := range s.taskTypes {
		if tt.ID != taskTypeID {
			continue
		}
		for _, m := range tt.Milestones {
			if m.ID == milestoneID {
				return m, true
			}
		}
	}
	return models.Milestone{}, false
}

// DeleteTask removes the task. Its chat log and notifications are kept.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = filter(s.tasks, func(t models.Task) bool { return t.ID != id })
	return s.persist(constants.StorageKeyTasks, s.tasks)
}

func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = cloneTask(t)
	}
	return out
}

func (s *Store) Task(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.taskIndex(id); i >= 0 {
		return cloneTask(s.tasks[i]), true
	}
	return models.Task{}, false
}

// OverdueTasks lists tasks past their due date that are not completed or
// approved.
func (s *Store) OverdueTasks(now time.Time) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.IsOverdue(now) {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

// CheckOverdue emits overdue notifications for tasks whose assignee has not
// been warned yet and returns them.
func (s *Store) CheckOverdue(now time.Time) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkOverdueLocked(now)
}

func (s *Store) checkOverdueLocked(now time.Time) ([]models.Notification, error) {
	emitted := s.gen.Overdue(s.tasks, s.notifications, now)
	if len(emitted) == 0 {
		return nil, nil
	}
	s.log.WithField("count", len(emitted)).Info("Overdue notifications emitted")
	return emitted, s.emit(emitted)
}

func (s *Store) taskIndex(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
