package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/officedesk/internal/dto"
	apierrors "github.com/yukikurage/officedesk/internal/errors"
	"github.com/yukikurage/officedesk/internal/middleware"
	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/services"
	"github.com/yukikurage/officedesk/internal/utils"
)

type TaskHandler struct {
	taskService     *services.TaskService
	userService     *services.UserService
	clientService   *services.ClientService
	taskTypeService *services.TaskTypeService
	chatService     *services.ChatService
	aiService       *services.AIService
}

func NewTaskHandler(
	taskService *services.TaskService,
	userService *services.UserService,
	clientService *services.ClientService,
	taskTypeService *services.TaskTypeService,
	chatService *services.ChatService,
	aiService *services.AIService,
) *TaskHandler {
	return &TaskHandler{
		taskService:     taskService,
		userService:     userService,
		clientService:   clientService,
		taskTypeService: taskTypeService,
		chatService:     chatService,
		aiService:       aiService,
	}
}

func (h *TaskHandler) directory() dto.Directory {
	return dto.Directory{
		Users:     h.userService.ListUsers(),
		Clients:   h.clientService.ListClients(false),
		TaskTypes: h.taskTypeService.ListTaskTypes(false),
	}
}

func (h *TaskHandler) toDTO(actor models.User, task models.Task, dir dto.Directory, withActivity bool) dto.TaskDTO {
	unread, _ := h.chatService.UnreadCount(actor, task.ID)
	return dto.ToTaskDTO(task, dir, dto.TaskView{
		Now:            h.taskService.Now(),
		NextStatuses:   services.NextStatuses(actor, task),
		UnreadMessages: unread,
		WithActivity:   withActivity,
	})
}

func (h *TaskHandler) respondTask(c *gin.Context, status int, actor models.User, task models.Task) {
	c.JSON(status, h.toDTO(actor, task, h.directory(), true))
}

// ListTasks returns the tasks visible to the current user. Supports
// status, priority, client_id, task_type_id, assignee_id, q, mine and
// overdue filters plus page/limit.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	filter := services.TaskFilter{
		Status:     models.TaskStatus(c.Query("status")),
		Priority:   models.TaskPriority(c.Query("priority")),
		ClientID:   c.Query("client_id"),
		TaskTypeID: c.Query("task_type_id"),
		AssigneeID: c.Query("assignee_id"),
		Search:     c.Query("q"),
		Mine:       c.Query("mine") == "true",
		Overdue:    c.Query("overdue") == "true",
	}
	if filter.Status != "" && !filter.Status.Valid() {
		apierrors.BadRequest(c, "Invalid status filter")
		return
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		apierrors.BadRequest(c, "Invalid priority filter")
		return
	}

	params := utils.GetPaginationParams(c)
	page, pagination := utils.Paginate(h.taskService.ListTasks(actor, filter), params)

	dir := h.directory()
	items := make([]dto.TaskDTO, len(page))
	for i, task := range page {
		items[i] = h.toDTO(actor, task, dir, false)
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks:      items,
		Pagination: pagination,
	})
}

// GetTask returns a specific task by ID
// Task is already loaded by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}
	h.respondTask(c, http.StatusOK, actor, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title          string              `json:"title" binding:"required"`
		Description    string              `json:"description"`
		TaskTypeID     string              `json:"taskTypeId" binding:"required"`
		ClientID       string              `json:"clientId" binding:"required"`
		AssignedToID   string              `json:"assignedToId" binding:"required"`
		AssignedUsers  []string            `json:"assignedUsers"`
		Priority       models.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
		DueDate        time.Time           `json:"dueDate" binding:"required"`
		EstimatedHours float64             `json:"estimatedHours" binding:"gte=0"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(actor, services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		TaskTypeID:     req.TaskTypeID,
		ClientID:       req.ClientID,
		AssignedToID:   req.AssignedToID,
		AssignedUsers:  req.AssignedUsers,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondTask(c, http.StatusCreated, actor, *task)
}

// UpdateTask edits task details. Status changes go through ChangeStatus.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title          *string              `json:"title"`
		Description    *string              `json:"description"`
		TaskTypeID     *string              `json:"taskTypeId"`
		ClientID       *string              `json:"clientId"`
		AssignedToID   *string              `json:"assignedToId"`
		AssignedUsers  *[]string            `json:"assignedUsers"`
		Priority       *models.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
		DueDate        *time.Time           `json:"dueDate"`
		EstimatedHours *float64             `json:"estimatedHours" binding:"omitempty,gte=0"`
		ActualHours    *float64             `json:"actualHours" binding:"omitempty,gte=0"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(actor, c.Param("id"), services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		TaskTypeID:     req.TaskTypeID,
		ClientID:       req.ClientID,
		AssignedToID:   req.AssignedToID,
		AssignedUsers:  req.AssignedUsers,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondTask(c, http.StatusOK, actor, *task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// ChangeStatus moves the task through its workflow. Completing an
// in-progress task needs "confirm": true.
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	type ChangeStatusRequest struct {
		Status  models.TaskStatus `json:"status" binding:"required"`
		Confirm bool              `json:"confirm"`
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	task, err := h.taskService.ChangeStatus(actor, c.Param("id"), req.Status, req.Confirm)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondTask(c, http.StatusOK, actor, *task)
}

// SetMilestone marks one milestone of the task complete or open.
func (h *TaskHandler) SetMilestone(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	type SetMilestoneRequest struct {
		Completed *bool `json:"completed" binding:"required"`
	}

	var req SetMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	task, err := h.taskService.SetMilestoneCompletion(actor, c.Param("id"), c.Param("milestoneId"), *req.Completed)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondTask(c, http.StatusOK, actor, *task)
}

// Dashboard summarises the current user's workload.
func (h *TaskHandler) Dashboard(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.taskService.Dashboard(actor))
}

// GenerateTasks drafts task suggestions from free text using AI. Nothing
// is saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	if h.aiService == nil || !h.aiService.Enabled() {
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
		return
	}

	generatedTasks, err := h.aiService.GenerateTasksFromText(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": generatedTasks,
	})
}
