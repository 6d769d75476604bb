package store

import (
	"reflect"

	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/models"
)

// AddTaskType stamps ids on the type and on milestones that lack one.
func (s *Store) AddTaskType(taskType models.TaskType) (models.TaskType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	taskType.ID = s.newID()
	taskType.CreatedAt = now
	taskType.UpdatedAt = now
	taskType.Milestones = s.stampMilestones(taskType.Milestones)

	s.taskTypes = append(s.taskTypes, taskType)
	return cloneTaskType(taskType), s.persist(constants.StorageKeyTaskTypes, s.taskTypes)
}

// UpdateTaskType merges patch into the type. Replacing the milestone list
// prunes progress entries for removed milestones from every task of the
// type, and notifies their assignees when the list actually changed.
func (s *Store) UpdateTaskType(id string, patch models.TaskTypePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskTypeIndex(id)
	if i < 0 {
		return nil
	}
	tt := &s.taskTypes[i]

	if patch.Name != nil {
		tt.Name = *patch.Name
	}
	if patch.Description != nil {
		tt.Description = *patch.Description
	}
	if patch.Category != nil {
		tt.Category = *patch.Category
	}
	if patch.EstimatedHours != nil {
		tt.EstimatedHours = *patch.EstimatedHours
	}
	if patch.IsActive != nil {
		tt.IsActive = *patch.IsActive
	}

	var milestonesChanged bool
	if patch.Milestones != nil {
		next := s.stampMilestones(*patch.Milestones)
		milestonesChanged = !reflect.DeepEqual(tt.Milestones, next)
		tt.Milestones = next
	}
	tt.UpdatedAt = s.now()

	if err := s.persist(constants.StorageKeyTaskTypes, s.taskTypes); err != nil {
		return err
	}
	if patch.Milestones == nil {
		return nil
	}

	if s.pruneMilestoneProgress(*tt) {
		if err := s.persist(constants.StorageKeyTasks, s.tasks); err != nil {
			return err
		}
	}
	if !milestonesChanged {
		return nil
	}
	return s.emit(s.gen.MilestonesChanged(*tt, s.tasks))
}

// DeleteTaskType removes the type. Tasks keep the dangling reference.
func (s *Store) DeleteTaskType(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.taskTypes = filter(s.taskTypes, func(t models.TaskType) bool { return t.ID != id })
	return s.persist(constants.StorageKeyTaskTypes, s.taskTypes)
}

func (s *Store) TaskTypes() []models.TaskType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TaskType, len(s.taskTypes))
	for i, t := range s.taskTypes {
		out[i] = cloneTaskType(t)
	}
	return out
}

func (s *Store) TaskType(id string) (models.TaskType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.taskTypeIndex(id); i >= 0 {
		return cloneTaskType(s.taskTypes[i]), true
	}
	return models.TaskType{}, false
}

func (s *Store) taskTypeIndex(id string) int {
	for i := range s.taskTypes {
		if s.taskTypes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) stampMilestones(milestones []models.Milestone) []models.Milestone {
	out := make([]models.Milestone, len(milestones))
	copy(out, milestones)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = s.newID()
		}
	}
	return out
}

// pruneMilestoneProgress drops progress entries whose milestone is no longer
// part of taskType. Reports whether any task changed.
func (s *Store) pruneMilestoneProgress(taskType models.TaskType) bool {
	changed := false
	for i := range s.tasks {
		task := &s.tasks[i]
		if task.TaskTypeID != taskType.ID {
			continue
		}
		kept := filter(task.MilestoneProgress, func(p models.MilestoneProgress) bool {
			return taskType.HasMilestone(p.MilestoneID)
		})
		if len(kept) != len(task.MilestoneProgress) {
			task.MilestoneProgress = kept
			changed = true
		}
	}
	return changed
}
