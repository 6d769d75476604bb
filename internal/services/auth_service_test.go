package services

import (
	"github.com/yukikurage/officedesk/internal/models"
)

func (suite *ServiceTestSuite) TestLogin_Success() {
	user, err := suite.auth.Login(LoginInput{Email: "BOB@firm.test", Password: "password123"})

	suite.Require().NoError(err)
	suite.Equal(suite.bob.ID, user.ID)
	suite.Require().NotNil(user.LastLogin)
	suite.True(user.LastLogin.Equal(suite.now))

	current, ok := suite.store.CurrentUser()
	suite.Require().True(ok)
	suite.Equal(suite.bob.ID, current.ID)
	suite.Empty(current.Password)
}

func (suite *ServiceTestSuite) TestLogin_WrongPassword() {
	_, err := suite.auth.Login(LoginInput{Email: "bob@firm.test", Password: "nope"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	_, err = suite.auth.Login(LoginInput{Email: "ghost@firm.test", Password: "password123"})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *ServiceTestSuite) TestLogin_InactiveUser() {
	inactive := models.UserStatusInactive
	_, err := suite.users.UpdateUser(suite.bob.ID, UpdateUserInput{Status: &inactive})
	suite.Require().NoError(err)

	_, err = suite.auth.Login(LoginInput{Email: "bob@firm.test", Password: "password123"})
	suite.ErrorIs(err, ErrUserInactive)
}

func (suite *ServiceTestSuite) TestLogin_BypassMode() {
	bypass := NewAuthService(suite.store, AuthModeBypass, quietLogger())
	suite.Equal(AuthModeBypass, bypass.Mode())

	user, err := bypass.Login(LoginInput{Email: "carol@firm.test", Password: "anything"})
	suite.Require().NoError(err)
	suite.Equal(suite.carol.ID, user.ID)

	_, err = bypass.Login(LoginInput{Email: "ghost@firm.test"})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *ServiceTestSuite) TestLogout_ClearsSessionSlot() {
	_, err := suite.auth.Login(LoginInput{Email: "bob@firm.test", Password: "password123"})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.auth.Logout())
	_, ok := suite.store.CurrentUser()
	suite.False(ok)
}

func (suite *ServiceTestSuite) TestSeedAdmin_OnlyWhenEmpty() {
	seeded, err := suite.auth.SeedAdmin("root@firm.test", "changeme123")
	suite.Require().NoError(err)
	suite.Nil(seeded)
	suite.Len(suite.store.Users(), 3)
}
