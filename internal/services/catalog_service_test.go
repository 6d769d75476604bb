package services

import (
	"github.com/yukikurage/officedesk/internal/models"
)

func (suite *ServiceTestSuite) TestCreateClient_RequiresContactFields() {
	_, err := suite.clients.CreateClient(ClientInput{Name: "No phone", Email: "a@b.test", Address: "Osaka"})
	suite.ErrorIs(err, ErrPhoneRequired)
	suite.Len(suite.clients.ListClients(false), 1)
}

func (suite *ServiceTestSuite) TestUpdateClient_RejectsBlankName() {
	blank := "   "
	_, err := suite.clients.UpdateClient(suite.client.ID, UpdateClientInput{Name: &blank})
	suite.ErrorIs(err, ErrNameRequired)

	client, err := suite.clients.GetClient(suite.client.ID)
	suite.Require().NoError(err)
	suite.Equal("Acme KK", client.Name)
}

func (suite *ServiceTestSuite) TestListClients_ActiveOnly() {
	inactive := false
	_, err := suite.clients.CreateClient(ClientInput{
		Name: "Dormant LLC", Email: "d@d.test", Phone: "1", Address: "Nagoya", IsActive: &inactive,
	})
	suite.Require().NoError(err)

	suite.Len(suite.clients.ListClients(false), 2)
	active := suite.clients.ListClients(true)
	suite.Require().Len(active, 1)
	suite.Equal("Acme KK", active[0].Name)
}

func (suite *ServiceTestSuite) TestCreateTaskType_DuplicateMilestoneOrder() {
	_, err := suite.taskTypes.CreateTaskType(TaskTypeInput{
		Name: "Payroll",
		Milestones: []models.Milestone{
			{Name: "Gather", Order: 1},
			{Name: "Submit", Order: 1},
		},
	})
	suite.ErrorIs(err, ErrDuplicateMilestoneOrder)
	suite.Len(suite.taskTypes.ListTaskTypes(false), 1)
}

func (suite *ServiceTestSuite) TestCreateTaskType_StampsMilestoneIDs() {
	for _, m := range suite.taskType.Milestones {
		suite.NotEmpty(m.ID)
	}
	suite.Equal("Collect documents", suite.taskType.Milestones[0].Name)
}

func (suite *ServiceTestSuite) TestUpdateTaskType_PrunesProgress() {
	task := suite.createTask("Prune me")
	first := suite.taskType.Milestones[0]
	second := suite.taskType.Milestones[1]

	_, err := suite.tasks.SetMilestoneCompletion(suite.bob, task.ID, first.ID, true)
	suite.Require().NoError(err)
	_, err = suite.tasks.SetMilestoneCompletion(suite.bob, task.ID, second.ID, true)
	suite.Require().NoError(err)

	kept := []models.Milestone{second}
	_, err = suite.taskTypes.UpdateTaskType(suite.taskType.ID, UpdateTaskTypeInput{Milestones: &kept})
	suite.Require().NoError(err)

	updated, err := suite.tasks.GetTask(suite.admin, task.ID)
	suite.Require().NoError(err)
	suite.Require().Len(updated.MilestoneProgress, 1)
	suite.Equal(second.ID, updated.MilestoneProgress[0].MilestoneID)
}

func (suite *ServiceTestSuite) TestDeleteTaskType_NotFound() {
	suite.ErrorIs(suite.taskTypes.DeleteTaskType("missing"), ErrTaskTypeNotFound)
	suite.Require().NoError(suite.taskTypes.DeleteTaskType(suite.taskType.ID))
	suite.Empty(suite.taskTypes.ListTaskTypes(false))
}
