package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/officedesk/internal/errors"
	"github.com/yukikurage/officedesk/internal/middleware"
	"github.com/yukikurage/officedesk/internal/services"
)

// Services bundles what the HTTP layer needs. AI may be nil.
type Services struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Clients       *services.ClientService
	TaskTypes     *services.TaskTypeService
	Tasks         *services.TaskService
	Chat          *services.ChatService
	Notifications *services.NotificationService
	AI            *services.AIService
}

// RegisterRoutes mounts the health check and the /api tree on r. Session
// middleware must already be installed.
func RegisterRoutes(r *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users)
	clientHandler := NewClientHandler(svc.Clients)
	taskTypeHandler := NewTaskTypeHandler(svc.TaskTypes)
	taskHandler := NewTaskHandler(svc.Tasks, svc.Users, svc.Clients, svc.TaskTypes, svc.Chat, svc.AI)
	chatHandler := NewChatHandler(svc.Chat)
	notificationHandler := NewNotificationHandler(svc.Notifications)

	apierrors.UseJSONFieldNames()

	requireAuth := middleware.RequireAuth(svc.Auth)
	requireAdmin := middleware.RequireAdmin()
	taskAccess := middleware.RequireTaskAccess(svc.Tasks)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "officedesk is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		api.GET("/dashboard", requireAuth, taskHandler.Dashboard)

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.POST("", requireAdmin, userHandler.CreateUser)
			users.PATCH("/:id", requireAdmin, userHandler.UpdateUser)
			users.DELETE("/:id", requireAdmin, userHandler.DeleteUser)
		}

		clients := api.Group("/clients")
		clients.Use(requireAuth)
		{
			clients.GET("", clientHandler.ListClients)
			clients.GET("/:id", clientHandler.GetClient)
			clients.POST("", requireAdmin, clientHandler.CreateClient)
			clients.PATCH("/:id", requireAdmin, clientHandler.UpdateClient)
			clients.DELETE("/:id", requireAdmin, clientHandler.DeleteClient)
		}

		taskTypes := api.Group("/task-types")
		taskTypes.Use(requireAuth)
		{
			taskTypes.GET("", taskTypeHandler.ListTaskTypes)
			taskTypes.GET("/:id", taskTypeHandler.GetTaskType)
			taskTypes.POST("", requireAdmin, taskTypeHandler.CreateTaskType)
			taskTypes.PATCH("/:id", requireAdmin, taskTypeHandler.UpdateTaskType)
			taskTypes.DELETE("/:id", requireAdmin, taskTypeHandler.DeleteTaskType)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", requireAdmin, taskHandler.CreateTask)
			tasks.POST("/generate", requireAdmin, taskHandler.GenerateTasks)
			tasks.GET("/:id", taskAccess, taskHandler.GetTask)
			tasks.PATCH("/:id", requireAdmin, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireAdmin, taskHandler.DeleteTask)
			tasks.POST("/:id/status", taskAccess, taskHandler.ChangeStatus)
			tasks.PUT("/:id/milestones/:milestoneId", taskAccess, taskHandler.SetMilestone)
			tasks.GET("/:id/messages", taskAccess, chatHandler.ListMessages)
			tasks.POST("/:id/messages", taskAccess, chatHandler.PostMessage)
			tasks.GET("/:id/messages/unread", taskAccess, chatHandler.UnreadCount)
		}

		api.GET("/chats", requireAuth, chatHandler.ListThreads)

		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.DeleteNotification)
			notifications.DELETE("", notificationHandler.ClearNotifications)
		}
	}
}
