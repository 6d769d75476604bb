package store

import "github.com/yukikurage/officedesk/internal/models"

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func cloneSlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// cloneTask copies a task including its nested slices so callers cannot
// mutate store state through the result.
func cloneTask(t models.Task) models.Task {
	t.AssignedUsers = cloneSlice(t.AssignedUsers)
	t.MilestoneProgress = cloneSlice(t.MilestoneProgress)
	t.ActivityLog = cloneSlice(t.ActivityLog)
	return t
}

func cloneTaskType(t models.TaskType) models.TaskType {
	t.Milestones = cloneSlice(t.Milestones)
	return t
}
