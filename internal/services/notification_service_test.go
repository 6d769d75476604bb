package services

func (suite *ServiceTestSuite) TestNotifications_Ownership() {
	suite.createTask("Notify")

	bobNotes := suite.notifications.List(suite.bob, false)
	suite.Require().Len(bobNotes, 2)
	suite.Equal(2, suite.notifications.UnreadCount(suite.bob))

	suite.ErrorIs(suite.notifications.MarkRead(suite.carol, bobNotes[0].ID), ErrNotificationNotFound)
	suite.ErrorIs(suite.notifications.Delete(suite.carol, bobNotes[0].ID), ErrNotificationNotFound)

	suite.Require().NoError(suite.notifications.MarkRead(suite.bob, bobNotes[0].ID))
	suite.Equal(1, suite.notifications.UnreadCount(suite.bob))
	suite.Len(suite.notifications.List(suite.bob, true), 1)

	suite.Require().NoError(suite.notifications.MarkAllRead(suite.bob))
	suite.Require().NoError(suite.notifications.MarkAllRead(suite.bob))
	suite.Equal(0, suite.notifications.UnreadCount(suite.bob))

	suite.Require().NoError(suite.notifications.Delete(suite.bob, bobNotes[1].ID))
	suite.Len(suite.notifications.List(suite.bob, false), 1)

	suite.Require().NoError(suite.notifications.Clear(suite.bob))
	suite.Empty(suite.notifications.List(suite.bob, false))
}
