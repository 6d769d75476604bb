package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/store"
)

var (
	ErrTaskTypeNotFound        = errors.New("task type not found")
	ErrMilestoneNameRequired   = errors.New("milestone name is required")
	ErrDuplicateMilestoneOrder = errors.New("milestone order must be unique within a task type")
	ErrNegativeHours           = errors.New("estimated hours cannot be negative")
)

type TaskTypeService struct {
	store *store.Store
}

func NewTaskTypeService(s *store.Store) *TaskTypeService {
	return &TaskTypeService{store: s}
}

type TaskTypeInput struct {
	Name           string
	Description    string
	Category       string
	EstimatedHours float64
	IsActive       *bool
	Milestones     []models.Milestone
}

type UpdateTaskTypeInput struct {
	Name           *string
	Description    *string
	Category       *string
	EstimatedHours *float64
	IsActive       *bool
	Milestones     *[]models.Milestone
}

func (s *TaskTypeService) ListTaskTypes(activeOnly bool) []models.TaskType {
	types := s.store.TaskTypes()
	out := make([]models.TaskType, 0, len(types))
	for _, t := range types {
		if activeOnly && !t.IsActive {
			continue
		}
		t.Milestones = t.SortedMilestones()
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (s *TaskTypeService) GetTaskType(id string) (*models.TaskType, error) {
	taskType, ok := s.store.TaskType(id)
	if !ok {
		return nil, ErrTaskTypeNotFound
	}
	taskType.Milestones = taskType.SortedMilestones()
	return &taskType, nil
}

func (s *TaskTypeService) CreateTaskType(input TaskTypeInput) (*models.TaskType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.EstimatedHours < 0 {
		return nil, ErrNegativeHours
	}
	milestones, err := normalizeMilestones(input.Milestones)
	if err != nil {
		return nil, err
	}

	taskType := models.TaskType{
		Name:           name,
		Description:    strings.TrimSpace(input.Description),
		Category:       strings.TrimSpace(input.Category),
		EstimatedHours: input.EstimatedHours,
		IsActive:       true,
		Milestones:     milestones,
	}
	if input.IsActive != nil {
		taskType.IsActive = *input.IsActive
	}

	created, err := s.store.AddTaskType(taskType)
	if err != nil {
		return nil, fmt.Errorf("failed to create task type: %w", err)
	}
	return &created, nil
}

// UpdateTaskType applies input. Passing Milestones replaces the whole list;
// progress recorded against removed milestones is dropped from every task
// of this type.
func (s *TaskTypeService) UpdateTaskType(id string, input UpdateTaskTypeInput) (*models.TaskType, error) {
	if _, ok := s.store.TaskType(id); !ok {
		return nil, ErrTaskTypeNotFound
	}

	patch := models.TaskTypePatch{
		Description: trimmed(input.Description),
		Category:    trimmed(input.Category),
		IsActive:    input.IsActive,
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		patch.Name = &name
	}
	if input.EstimatedHours != nil {
		if *input.EstimatedHours < 0 {
			return nil, ErrNegativeHours
		}
		patch.EstimatedHours = input.EstimatedHours
	}
	if input.Milestones != nil {
		milestones, err := normalizeMilestones(*input.Milestones)
		if err != nil {
			return nil, err
		}
		patch.Milestones = &milestones
	}

	if err := s.store.UpdateTaskType(id, patch); err != nil {
		return nil, fmt.Errorf("failed to update task type: %w", err)
	}
	return s.GetTaskType(id)
}

func (s *TaskTypeService) DeleteTaskType(id string) error {
	if _, ok := s.store.TaskType(id); !ok {
		return ErrTaskTypeNotFound
	}
	if err := s.store.DeleteTaskType(id); err != nil {
		return fmt.Errorf("failed to delete task type: %w", err)
	}
	return nil
}

func normalizeMilestones(in []models.Milestone) ([]models.Milestone, error) {
	out := make([]models.Milestone, len(in))
	orders := make(map[int]struct{}, len(in))
	for i, m := range in {
		m.Name = strings.TrimSpace(m.Name)
		m.Description = strings.TrimSpace(m.Description)
		if m.Name == "" {
			return nil, ErrMilestoneNameRequired
		}
		if m.EstimatedHours < 0 {
			return nil, ErrNegativeHours
		}
		if _, dup := orders[m.Order]; dup {
			return nil, ErrDuplicateMilestoneOrder
		}
		orders[m.Order] = struct{}{}
		out[i] = m
	}
	return out, nil
}
