package services

import (
	"errors"

	"github.com/yukikurage/officedesk/internal/models"
)

var (
	ErrInvalidStatus        = errors.New("invalid task status")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrTaskLocked           = errors.New("completed or approved tasks can only be changed by an administrator")
	ErrNotTaskAssignee      = errors.New("only assignees can change this task")
	ErrConfirmationRequired = errors.New("completing a task requires confirmation")
)

// workflow lists the forward edges of the task lifecycle.
var workflow = map[models.TaskStatus][]models.TaskStatus{
	models.TaskStatusPending:    {models.TaskStatusInProgress},
	models.TaskStatusInProgress: {models.TaskStatusCompleted},
	models.TaskStatusCompleted:  {models.TaskStatusApproved, models.TaskStatusRejected},
	models.TaskStatusRejected:   {models.TaskStatusPending},
}

// CanTransition checks whether actor may move task to status next.
// Administrators may move any task anywhere. Everyone else must be an
// assignee, cannot touch completed or approved tasks, and follows the
// workflow edges. Moving from in-progress to completed needs confirmed.
func CanTransition(actor models.User, task models.Task, next models.TaskStatus, confirmed bool) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if next == task.Status {
		return nil
	}
	if task.Status == models.TaskStatusInProgress && next == models.TaskStatusCompleted && !confirmed {
		return ErrConfirmationRequired
	}
	if actor.IsAdmin() {
		return nil
	}
	if !task.IsAssignee(actor.ID) {
		return ErrNotTaskAssignee
	}
	if task.Status.Closed() {
		return ErrTaskLocked
	}
	for _, allowed := range workflow[task.Status] {
		if allowed == next && !isReview(next) {
			return nil
		}
	}
	return ErrInvalidTransition
}

// isReview reports statuses only administrators can set.
func isReview(s models.TaskStatus) bool {
	return s == models.TaskStatusApproved || s == models.TaskStatusRejected
}

// NextStatuses lists the statuses actor could move task to right now.
func NextStatuses(actor models.User, task models.Task) []models.TaskStatus {
	all := []models.TaskStatus{
		models.TaskStatusPending,
		models.TaskStatusInProgress,
		models.TaskStatusCompleted,
		models.TaskStatusApproved,
		models.TaskStatusRejected,
	}
	var out []models.TaskStatus
	for _, s := range all {
		if s == task.Status {
			continue
		}
		if CanTransition(actor, task, s, true) == nil {
			out = append(out, s)
		}
	}
	return out
}

// isPolicyError reports whether err is a workflow refusal rather than a
// storage failure.
func isPolicyError(err error) bool {
	return errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrTaskLocked) ||
		errors.Is(err, ErrNotTaskAssignee) ||
		errors.Is(err, ErrConfirmationRequired)
}
