package services

import (
	"strings"
	"sync"
	"time"

	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/notify"
)

func (suite *ServiceTestSuite) TestCreateTask_Defaults() {
	task := suite.createTask("Quarterly VAT")

	suite.Equal("T001", task.TaskNumber)
	suite.Equal(models.TaskStatusPending, task.Status)
	suite.Equal(suite.admin.ID, task.AssignedByID)
	suite.Equal(12.0, task.EstimatedHours)
	suite.Equal([]string{suite.carol.ID}, task.AssignedUsers)
	suite.Require().Len(task.ActivityLog, 1)
	suite.Equal("created the task and assigned it to Bob", task.ActivityLog[0].Action)

	second := suite.createTask("Payroll")
	suite.Equal("T002", second.TaskNumber)
}

func (suite *ServiceTestSuite) TestCreateTask_Validation() {
	inactive := models.UserStatusInactive
	_, err := suite.users.UpdateUser(suite.carol.ID, UpdateUserInput{Status: &inactive})
	suite.Require().NoError(err)

	valid := CreateTaskInput{
		Title:        "Valid",
		TaskTypeID:   suite.taskType.ID,
		ClientID:     suite.client.ID,
		AssignedToID: suite.bob.ID,
		DueDate:      suite.now.Add(time.Hour),
	}

	tests := []struct {
		name   string
		mutate func(*CreateTaskInput)
		want   error
	}{
		{"missing title", func(in *CreateTaskInput) { in.Title = " " }, ErrTitleRequired},
		{"missing due date", func(in *CreateTaskInput) { in.DueDate = time.Time{} }, ErrDueDateRequired},
		{"bad priority", func(in *CreateTaskInput) { in.Priority = "critical" }, ErrInvalidPriority},
		{"unknown client", func(in *CreateTaskInput) { in.ClientID = "missing" }, ErrInvalidTaskReference},
		{"unknown type", func(in *CreateTaskInput) { in.TaskTypeID = "missing" }, ErrInvalidTaskReference},
		{"unknown assignee", func(in *CreateTaskInput) { in.AssignedToID = "missing" }, ErrAssigneeNotFound},
		{"inactive helper", func(in *CreateTaskInput) { in.AssignedUsers = []string{suite.carol.ID} }, ErrAssigneeInactive},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			input := valid
			tt.mutate(&input)
			_, err := suite.tasks.CreateTask(suite.admin, input)
			suite.ErrorIs(err, tt.want)
		})
	}
	suite.Empty(suite.store.Tasks())
}

func (suite *ServiceTestSuite) TestListTasks_Visibility() {
	suite.createTask("Shared")
	dan := suite.createUser("Dan", "dan@firm.test", models.RoleUser)

	suite.Len(suite.tasks.ListTasks(suite.admin, TaskFilter{}), 1)
	suite.Len(suite.tasks.ListTasks(suite.bob, TaskFilter{}), 1)
	suite.Len(suite.tasks.ListTasks(suite.carol, TaskFilter{Mine: true}), 1)
	suite.Empty(suite.tasks.ListTasks(dan, TaskFilter{}))
	suite.Empty(suite.tasks.ListTasks(suite.admin, TaskFilter{Mine: true}))
}

func (suite *ServiceTestSuite) TestListTasks_Filters() {
	first := suite.createTask("Bookkeeping")
	suite.createTask("Tax return")
	_, err := suite.tasks.ChangeStatus(suite.bob, first.ID, models.TaskStatusInProgress, false)
	suite.Require().NoError(err)

	suite.Len(suite.tasks.ListTasks(suite.admin, TaskFilter{Status: models.TaskStatusInProgress}), 1)
	suite.Len(suite.tasks.ListTasks(suite.admin, TaskFilter{Search: "TAX"}), 1)
	suite.Len(suite.tasks.ListTasks(suite.admin, TaskFilter{AssigneeID: suite.carol.ID}), 2)
	suite.Empty(suite.tasks.ListTasks(suite.admin, TaskFilter{ClientID: "other"}))
	suite.Empty(suite.tasks.ListTasks(suite.admin, TaskFilter{Overdue: true}))

	suite.now = suite.now.Add(72 * time.Hour)
	suite.Len(suite.tasks.ListTasks(suite.admin, TaskFilter{Overdue: true}), 2)
}

func (suite *ServiceTestSuite) TestGetTask_AccessDenied() {
	task := suite.createTask("Private")
	dan := suite.createUser("Dan", "dan@firm.test", models.RoleUser)

	_, err := suite.tasks.GetTask(dan, task.ID)
	suite.ErrorIs(err, ErrTaskAccessDenied)
	_, err = suite.tasks.GetTask(dan, "missing")
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestChangeStatus_Workflow() {
	task := suite.createTask("Audit")

	_, err := suite.tasks.ChangeStatus(suite.bob, task.ID, models.TaskStatusInProgress, false)
	suite.Require().NoError(err)

	_, err = suite.tasks.ChangeStatus(suite.bob, task.ID, models.TaskStatusCompleted, false)
	suite.ErrorIs(err, ErrConfirmationRequired)

	updated, err := suite.tasks.ChangeStatus(suite.bob, task.ID, models.TaskStatusCompleted, true)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusCompleted, updated.Status)
	suite.Equal("changed status from in-progress to completed", updated.ActivityLog[len(updated.ActivityLog)-1].Action)

	_, err = suite.tasks.ChangeStatus(suite.bob, task.ID, models.TaskStatusApproved, false)
	suite.ErrorIs(err, ErrTaskLocked)

	approved, err := suite.tasks.ChangeStatus(suite.admin, task.ID, models.TaskStatusApproved, false)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusApproved, approved.Status)

	var completedNotice bool
	for _, n := range suite.store.Notifications(suite.admin.ID) {
		if n.Title == notify.TitleTaskCompleted && n.TaskID == task.ID {
			completedNotice = true
		}
	}
	suite.True(completedNotice)
}

func (suite *ServiceTestSuite) TestChangeStatus_Stranger() {
	task := suite.createTask("Audit")
	dan := suite.createUser("Dan", "dan@firm.test", models.RoleUser)

	_, err := suite.tasks.ChangeStatus(dan, task.ID, models.TaskStatusInProgress, false)
	suite.ErrorIs(err, ErrTaskAccessDenied)

	_, err = suite.tasks.ChangeStatus(suite.bob, task.ID, "archived", false)
	suite.ErrorIs(err, ErrInvalidStatus)
}

func (suite *ServiceTestSuite) TestUpdateTask_Reassign() {
	task := suite.createTask("Handover")

	_, err := suite.tasks.UpdateTask(suite.bob, task.ID, UpdateTaskInput{})
	suite.ErrorIs(err, ErrTaskAccessDenied)

	carol := suite.carol.ID
	updated, err := suite.tasks.UpdateTask(suite.admin, task.ID, UpdateTaskInput{AssignedToID: &carol})
	suite.Require().NoError(err)
	suite.Equal(carol, updated.AssignedToID)
	suite.Empty(updated.AssignedUsers)

	var assigned bool
	for _, n := range suite.store.Notifications(carol) {
		if n.Title == notify.TitleTaskAssigned && n.TaskID == task.ID {
			assigned = true
		}
	}
	suite.True(assigned)
}

func (suite *ServiceTestSuite) TestUpdateTask_ChangingTypeResetsProgress() {
	task := suite.createTask("Switch")
	_, err := suite.tasks.SetMilestoneCompletion(suite.bob, task.ID, suite.taskType.Milestones[0].ID, true)
	suite.Require().NoError(err)

	other, err := suite.taskTypes.CreateTaskType(TaskTypeInput{Name: "Consulting"})
	suite.Require().NoError(err)

	updated, err := suite.tasks.UpdateTask(suite.admin, task.ID, UpdateTaskInput{TaskTypeID: &other.ID})
	suite.Require().NoError(err)
	suite.Empty(updated.MilestoneProgress)
}

func (suite *ServiceTestSuite) TestSetMilestoneCompletion() {
	task := suite.createTask("Milestones")
	milestone := suite.taskType.Milestones[0]

	updated, err := suite.tasks.SetMilestoneCompletion(suite.carol, task.ID, milestone.ID, true)
	suite.Require().NoError(err)
	suite.Require().Len(updated.MilestoneProgress, 1)
	suite.True(updated.MilestoneProgress[0].Completed)
	suite.Equal(suite.carol.ID, updated.MilestoneProgress[0].CompletedByID)
	suite.Equal(50, updated.CompletionPercent(suite.taskType))
	suite.Equal(`completed milestone "Collect documents"`, updated.ActivityLog[len(updated.ActivityLog)-1].Action)

	reopened, err := suite.tasks.SetMilestoneCompletion(suite.bob, task.ID, milestone.ID, false)
	suite.Require().NoError(err)
	suite.Require().Len(reopened.MilestoneProgress, 1)
	suite.False(reopened.MilestoneProgress[0].Completed)
	suite.Nil(reopened.MilestoneProgress[0].CompletedAt)
	suite.Equal(0, reopened.CompletionPercent(suite.taskType))

	_, err = suite.tasks.SetMilestoneCompletion(suite.bob, task.ID, "missing", true)
	suite.ErrorIs(err, ErrMilestoneNotFound)

	dan := suite.createUser("Dan", "dan@firm.test", models.RoleUser)
	_, err = suite.tasks.SetMilestoneCompletion(dan, task.ID, milestone.ID, true)
	suite.ErrorIs(err, ErrNotTaskAssignee)
}

func (suite *ServiceTestSuite) TestSetMilestoneCompletion_ConcurrentToggles() {
	task := suite.createTask("Parallel")

	var wg sync.WaitGroup
	for _, m := range suite.taskType.Milestones {
		wg.Add(1)
		go func(actor models.User, milestoneID string) {
			defer wg.Done()
			_, err := suite.tasks.SetMilestoneCompletion(actor, task.ID, milestoneID, true)
			suite.NoError(err)
		}(suite.bob, m.ID)
	}
	wg.Wait()

	updated, ok := suite.store.Task(task.ID)
	suite.Require().True(ok)
	suite.Len(updated.MilestoneProgress, 2)
	suite.Equal(100, updated.CompletionPercent(suite.taskType))

	var entries []models.ActivityEntry
	for _, e := range updated.ActivityLog {
		if strings.HasPrefix(e.Action, "completed milestone") {
			entries = append(entries, e)
		}
	}
	suite.Require().Len(entries, 2)
	for _, e := range entries {
		suite.True(strings.HasPrefix(e.ID, "id-"), "activity id %q comes from the store generator", e.ID)
	}
}

func (suite *ServiceTestSuite) TestSetMilestoneCompletion_LockedForAssigneesOnceCompleted() {
	task := suite.createTask("Closed")
	completed := models.TaskStatusCompleted
	suite.Require().NoError(suite.store.UpdateTask(task.ID, models.TaskPatch{Status: &completed}, suite.admin))

	_, err := suite.tasks.SetMilestoneCompletion(suite.bob, task.ID, suite.taskType.Milestones[0].ID, true)
	suite.ErrorIs(err, ErrTaskLocked)

	_, err = suite.tasks.SetMilestoneCompletion(suite.admin, task.ID, suite.taskType.Milestones[0].ID, true)
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestUpdateTask_DanglingReferencesStayEditable() {
	task := suite.createTask("Orphan")
	suite.Require().NoError(suite.clients.DeleteClient(suite.client.ID))
	suite.Require().NoError(suite.taskTypes.DeleteTaskType(suite.taskType.ID))

	urgent := models.PriorityUrgent
	updated, err := suite.tasks.UpdateTask(suite.admin, task.ID, UpdateTaskInput{Priority: &urgent})
	suite.Require().NoError(err)
	suite.Equal(models.PriorityUrgent, updated.Priority)
	suite.Equal(suite.client.ID, updated.ClientID)

	same := suite.client.ID
	_, err = suite.tasks.UpdateTask(suite.admin, task.ID, UpdateTaskInput{ClientID: &same})
	suite.NoError(err)

	missing := "no-such-client"
	_, err = suite.tasks.UpdateTask(suite.admin, task.ID, UpdateTaskInput{ClientID: &missing})
	suite.ErrorIs(err, ErrInvalidTaskReference)
}

func (suite *ServiceTestSuite) TestUpdateTask_InactiveAssigneeOnlyCheckedWhenAdded() {
	task := suite.createTask("Keep Carol")
	inactive := models.UserStatusInactive
	_, err := suite.users.UpdateUser(suite.carol.ID, UpdateUserInput{Status: &inactive})
	suite.Require().NoError(err)

	title := "Renamed"
	_, err = suite.tasks.UpdateTask(suite.admin, task.ID, UpdateTaskInput{Title: &title})
	suite.NoError(err)

	carol := suite.carol.ID
	_, err = suite.tasks.UpdateTask(suite.admin, task.ID, UpdateTaskInput{AssignedToID: &carol})
	suite.ErrorIs(err, ErrAssigneeInactive)
}

func (suite *ServiceTestSuite) TestDashboard() {
	suite.createTask("Upcoming")
	_, err := suite.tasks.CreateTask(suite.admin, CreateTaskInput{
		Title:        "Late",
		TaskTypeID:   suite.taskType.ID,
		ClientID:     suite.client.ID,
		AssignedToID: suite.bob.ID,
		DueDate:      suite.now.Add(-24 * time.Hour),
	})
	suite.Require().NoError(err)

	d := suite.tasks.Dashboard(suite.bob)

	suite.Equal(2, d.TotalTasks)
	suite.Equal(2, d.ByStatus[models.TaskStatusPending])
	suite.Equal(1, d.OverdueTasks)
	suite.Equal(1, d.DueThisWeek)
	suite.Equal(5, d.UnreadNotifications)
	suite.Equal(0, d.UnreadMessages)
}

func (suite *ServiceTestSuite) TestDeleteTask() {
	task := suite.createTask("Gone")
	suite.Require().NoError(suite.tasks.DeleteTask(task.ID))
	suite.ErrorIs(suite.tasks.DeleteTask(task.ID), ErrTaskNotFound)
}
