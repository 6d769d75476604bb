package services

import (
	"strings"
	"time"

	"github.com/yukikurage/officedesk/internal/models"
)

func (suite *ServiceTestSuite) TestPostMessage_NotifiesParticipants() {
	task := suite.createTask("Chatty")

	msg, err := suite.chat.PostMessage(suite.bob, task.ID, PostMessageInput{
		Message:  "  " + strings.Repeat("a", 60) + "  ",
		Mentions: []string{suite.carol.ID, suite.carol.ID},
	})
	suite.Require().NoError(err)
	suite.Equal(strings.Repeat("a", 60), msg.Message)
	suite.Equal([]string{suite.carol.ID}, msg.Mentions)

	adminNotes := suite.notifications.List(suite.admin, true)
	suite.Require().Len(adminNotes, 1)
	suite.Equal("New message in Chatty", adminNotes[0].Title)
	suite.Equal("Bob: "+strings.Repeat("a", 50)+"...", adminNotes[0].Message)

	var mentioned bool
	for _, n := range suite.notifications.List(suite.carol, true) {
		if n.Title == "You were mentioned in Chatty" {
			mentioned = true
		}
	}
	suite.True(mentioned)
}

func (suite *ServiceTestSuite) TestPostMessage_Validation() {
	task := suite.createTask("Chatty")
	dan := suite.createUser("Dan", "dan@firm.test", models.RoleUser)

	_, err := suite.chat.PostMessage(suite.bob, task.ID, PostMessageInput{Message: "   "})
	suite.ErrorIs(err, ErrMessageRequired)

	_, err = suite.chat.PostMessage(suite.bob, task.ID, PostMessageInput{Message: "hi", Mentions: []string{"ghost"}})
	suite.ErrorIs(err, ErrUnknownMention)

	_, err = suite.chat.PostMessage(dan, task.ID, PostMessageInput{Message: "hi"})
	suite.ErrorIs(err, ErrTaskAccessDenied)

	_, err = suite.chat.PostMessage(suite.bob, "missing", PostMessageInput{Message: "hi"})
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestListMessages_MarksRead() {
	task := suite.createTask("Chatty")
	_, err := suite.chat.PostMessage(suite.admin, task.ID, PostMessageInput{Message: "Please start"})
	suite.Require().NoError(err)

	unread, err := suite.chat.UnreadCount(suite.bob, task.ID)
	suite.Require().NoError(err)
	suite.Equal(1, unread)

	messages, err := suite.chat.ListMessages(suite.bob, task.ID)
	suite.Require().NoError(err)
	suite.Len(messages, 1)

	unread, err = suite.chat.UnreadCount(suite.bob, task.ID)
	suite.Require().NoError(err)
	suite.Equal(0, unread)
}

func (suite *ServiceTestSuite) TestThreads() {
	older := suite.createTask("Older")
	newer := suite.createTask("Newer")
	hidden, err := suite.tasks.CreateTask(suite.admin, CreateTaskInput{
		Title:        "Admin only",
		TaskTypeID:   suite.taskType.ID,
		ClientID:     suite.client.ID,
		AssignedToID: suite.admin.ID,
		DueDate:      suite.now.Add(time.Hour),
	})
	suite.Require().NoError(err)

	_, err = suite.chat.PostMessage(suite.admin, older.ID, PostMessageInput{Message: "first"})
	suite.Require().NoError(err)
	_, err = suite.chat.PostMessage(suite.admin, hidden.ID, PostMessageInput{Message: "private"})
	suite.Require().NoError(err)
	suite.now = suite.now.Add(time.Minute)
	_, err = suite.chat.PostMessage(suite.admin, newer.ID, PostMessageInput{Message: "second"})
	suite.Require().NoError(err)

	_, err = suite.chat.ListMessages(suite.bob, older.ID)
	suite.Require().NoError(err)

	threads, err := suite.chat.Threads(suite.bob)
	suite.Require().NoError(err)
	suite.Require().Len(threads, 2)

	suite.Equal(newer.ID, threads[0].TaskID)
	suite.Equal(1, threads[0].Unread)
	suite.Nil(threads[0].LastReadAt)

	suite.Equal(older.ID, threads[1].TaskID)
	suite.Equal(older.TaskNumber, threads[1].TaskNumber)
	suite.Equal(0, threads[1].Unread)
	suite.Require().NotNil(threads[1].LastReadAt)

	suite.Require().NoError(suite.tasks.DeleteTask(newer.ID))
	threads, err = suite.chat.Threads(suite.bob)
	suite.Require().NoError(err)
	suite.Len(threads, 1)

	adminThreads, err := suite.chat.Threads(suite.admin)
	suite.Require().NoError(err)
	suite.Len(adminThreads, 2)
}
