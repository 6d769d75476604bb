package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/database"
	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/repository"
	"github.com/yukikurage/officedesk/internal/services"
	"github.com/yukikurage/officedesk/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "password123"

var testNow = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	t      *testing.T
	router *gin.Engine
	store  *store.Store
	svc    Services

	admin models.User
	bob   models.User
	carol models.User
}

// setupTestEnv builds the full HTTP stack over an in-memory SQLite
// key-value table with three users: an admin and two staff members.
func setupTestEnv(t *testing.T, mode services.AuthMode) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	log := logrus.New()
	log.SetOutput(io.Discard)
	require.NoError(t, database.Migrate(db, log))

	s := store.New(repository.NewGormKeyValueRepository(db), log,
		store.WithClock(func() time.Time { return testNow }))

	svc := Services{
		Auth:          services.NewAuthService(s, mode, log),
		Users:         services.NewUserService(s),
		Clients:       services.NewClientService(s),
		TaskTypes:     services.NewTaskTypeService(s),
		Tasks:         services.NewTaskService(s, log),
		Chat:          services.NewChatService(s),
		Notifications: services.NewNotificationService(s),
		AI:            services.NewAIService("", log),
	}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, svc)

	env := &testEnv{t: t, router: r, store: s, svc: svc}
	env.admin = env.createUser("Alice", "alice@firm.test", models.RoleAdmin)
	env.bob = env.createUser("Bob", "bob@firm.test", models.RoleUser)
	env.carol = env.createUser("Carol", "carol@firm.test", models.RoleUser)
	return env
}

func (env *testEnv) createUser(name, email string, role models.UserRole) models.User {
	user, err := env.svc.Users.CreateUser(services.CreateUserInput{
		Name:     name,
		Email:    email,
		Password: testPassword,
		Role:     role,
	})
	require.NoError(env.t, err)
	return *user
}

// fixtures creates a client and a two-milestone task type.
func (env *testEnv) fixtures() (models.Client, models.TaskType) {
	client, err := env.svc.Clients.CreateClient(services.ClientInput{
		Name: "Acme KK", Email: "office@acme.test", Phone: "03-0000-0000", Address: "Tokyo",
	})
	require.NoError(env.t, err)
	taskType, err := env.svc.TaskTypes.CreateTaskType(services.TaskTypeInput{
		Name: "Annual filing",
		Milestones: []models.Milestone{
			{Name: "Collect documents", Order: 1},
			{Name: "Prepare return", Order: 2},
		},
	})
	require.NoError(env.t, err)
	return *client, *taskType
}

func (env *testEnv) createTask(title string) models.Task {
	client, taskType := env.fixtures()
	task, err := env.svc.Tasks.CreateTask(env.admin, services.CreateTaskInput{
		Title:        title,
		TaskTypeID:   taskType.ID,
		ClientID:     client.ID,
		AssignedToID: env.bob.ID,
		DueDate:      testNow.Add(48 * time.Hour),
	})
	require.NoError(env.t, err)
	return *task
}

func (env *testEnv) do(method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	env.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(env.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// login signs email in and returns the session cookies.
func (env *testEnv) login(email string) []*http.Cookie {
	env.t.Helper()
	w := env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": testPassword,
	}, nil)
	require.Equal(env.t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(env.t, cookies, "expected session cookie to be set")
	return cookies
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
