package services

import (
	"strings"
	"sync"

	"github.com/yukikurage/officedesk/internal/models"
)

func (suite *ServiceTestSuite) TestCreateUser_Validation() {
	tests := []struct {
		name  string
		input CreateUserInput
		want  error
	}{
		{"missing name", CreateUserInput{Email: "x@firm.test", Password: "password123"}, ErrNameRequired},
		{"missing email", CreateUserInput{Name: "X", Password: "password123"}, ErrEmailRequired},
		{"bad email", CreateUserInput{Name: "X", Email: "not-an-email", Password: "password123"}, ErrInvalidEmail},
		{"taken email", CreateUserInput{Name: "X", Email: "Bob@Firm.test", Password: "password123"}, ErrEmailTaken},
		{"short password", CreateUserInput{Name: "X", Email: "x@firm.test", Password: "short"}, ErrPasswordTooShort},
		{"bad role", CreateUserInput{Name: "X", Email: "x@firm.test", Password: "password123", Role: "owner"}, ErrInvalidRole},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.users.CreateUser(tt.input)
			suite.ErrorIs(err, tt.want)
		})
	}
	suite.Len(suite.store.Users(), 3)
}

func (suite *ServiceTestSuite) TestCreateUser_HashesPassword() {
	user, err := suite.users.CreateUser(CreateUserInput{Name: "Dan", Email: "dan@firm.test", Password: "password123"})

	suite.Require().NoError(err)
	suite.Equal(models.RoleUser, user.Role)
	suite.True(user.IsActive)
	suite.NotEqual("password123", user.Password)
	suite.NotEmpty(user.Password)
}

func (suite *ServiceTestSuite) TestUpdateUser_EmailTakenByInactiveUser() {
	inactive := models.UserStatusInactive
	_, err := suite.users.UpdateUser(suite.carol.ID, UpdateUserInput{Status: &inactive})
	suite.Require().NoError(err)

	email := "carol@firm.test"
	_, err = suite.users.UpdateUser(suite.bob.ID, UpdateUserInput{Email: &email})
	suite.ErrorIs(err, ErrEmailTaken)
}

func (suite *ServiceTestSuite) TestUpdateUser_StatusSyncsIsActive() {
	inactive := models.UserStatusInactive
	user, err := suite.users.UpdateUser(suite.bob.ID, UpdateUserInput{Status: &inactive})

	suite.Require().NoError(err)
	suite.Equal(models.UserStatusInactive, user.Status)
	suite.False(user.IsActive)
}

func (suite *ServiceTestSuite) TestDeleteUser() {
	suite.ErrorIs(suite.users.DeleteUser(suite.admin.ID, suite.admin), ErrCannotDeleteSelf)
	suite.ErrorIs(suite.users.DeleteUser("missing", suite.admin), ErrUserNotFound)

	suite.Require().NoError(suite.users.DeleteUser(suite.carol.ID, suite.admin))
	_, err := suite.users.GetUser(suite.carol.ID)
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestListUsers_SortedByName() {
	users := suite.users.ListUsers()
	suite.Require().Len(users, 3)
	suite.Equal("Alice", users[0].Name)
	suite.Equal("Carol", users[2].Name)
}

func (suite *ServiceTestSuite) TestCreateUser_ConcurrentSameEmail() {
	const workers = 4
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = suite.users.CreateUser(CreateUserInput{Name: "Dup", Email: "dup@firm.test", Password: "password123"})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		suite.ErrorIs(err, ErrEmailTaken)
	}
	suite.Equal(1, created)

	matches := 0
	for _, u := range suite.store.Users() {
		if strings.EqualFold(u.Email, "dup@firm.test") {
			matches++
		}
	}
	suite.Equal(1, matches)
}
