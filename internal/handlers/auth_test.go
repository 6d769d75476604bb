package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/dto"
	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/services"
)

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t, services.AuthModePassword)

	w := env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "bob@firm.test",
		"password": testPassword,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	decode(t, w, &response)
	assert.Equal(t, env.bob.ID, response.ID)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	env := setupTestEnv(t, services.AuthModePassword)

	w := env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "bob@firm.test",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")

	w = env.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "bob@firm.test"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "not-an-email", "password": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"email"`)
}

func TestAuthHandler_LoginBypassMode(t *testing.T) {
	env := setupTestEnv(t, services.AuthModeBypass)

	w := env.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "carol@firm.test"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/auth/me", nil, w.Result().Cookies())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authMode":"bypass"`)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupTestEnv(t, services.AuthModePassword)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUser, env.bob)

	NewAuthHandler(env.svc.Auth).GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		User dto.UserDTO `json:"user"`
	}
	decode(t, w, &response)
	assert.Equal(t, "Bob", response.User.Name)
}

func TestAuthHandler_MeRequiresSession(t *testing.T) {
	env := setupTestEnv(t, services.AuthModePassword)

	w := env.do(http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_DeactivatedUserLosesSession(t *testing.T) {
	env := setupTestEnv(t, services.AuthModePassword)
	cookies := env.login("bob@firm.test")

	inactive := models.UserStatusInactive
	_, err := env.svc.Users.UpdateUser(env.bob.ID, services.UpdateUserInput{Status: &inactive})
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/api/auth/me", nil, cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupTestEnv(t, services.AuthModePassword)
	cookies := env.login("bob@firm.test")

	w := env.do(http.MethodPost, "/api/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	_, ok := env.store.CurrentUser()
	assert.False(t, ok)

	w = env.do(http.MethodGet, "/api/auth/me", nil, w.Result().Cookies())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
