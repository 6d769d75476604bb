package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/officedesk/internal/errors"
	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/services"
)

type TaskTypeHandler struct {
	taskTypeService *services.TaskTypeService
}

func NewTaskTypeHandler(taskTypeService *services.TaskTypeService) *TaskTypeHandler {
	return &TaskTypeHandler{taskTypeService: taskTypeService}
}

// MilestoneRequest is one milestone in a task type payload. Existing
// milestones keep their id so task progress survives the edit.
type MilestoneRequest struct {
	ID             string  `json:"id"`
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	Order          int     `json:"order"`
	EstimatedHours float64 `json:"estimatedHours" binding:"gte=0"`
	IsRequired     bool    `json:"isRequired"`
}

func toMilestones(in []MilestoneRequest) []models.Milestone {
	out := make([]models.Milestone, len(in))
	for i, m := range in {
		out[i] = models.Milestone{
			ID:             m.ID,
			Name:           m.Name,
			Description:    m.Description,
			Order:          m.Order,
			EstimatedHours: m.EstimatedHours,
			IsRequired:     m.IsRequired,
		}
	}
	return out
}

func (h *TaskTypeHandler) ListTaskTypes(c *gin.Context) {
	types := h.taskTypeService.ListTaskTypes(c.Query("active") == "true")
	c.JSON(http.StatusOK, gin.H{"taskTypes": types})
}

func (h *TaskTypeHandler) GetTaskType(c *gin.Context) {
	taskType, err := h.taskTypeService.GetTaskType(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskType)
}

func (h *TaskTypeHandler) CreateTaskType(c *gin.Context) {
	type CreateTaskTypeRequest struct {
		Name           string             `json:"name" binding:"required"`
		Description    string             `json:"description"`
		Category       string             `json:"category"`
		EstimatedHours float64            `json:"estimatedHours" binding:"gte=0"`
		IsActive       *bool              `json:"isActive"`
		Milestones     []MilestoneRequest `json:"milestones" binding:"dive"`
	}

	var req CreateTaskTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	taskType, err := h.taskTypeService.CreateTaskType(services.TaskTypeInput{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		EstimatedHours: req.EstimatedHours,
		IsActive:       req.IsActive,
		Milestones:     toMilestones(req.Milestones),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskType)
}

// UpdateTaskType edits a task type. Sending milestones replaces the whole
// list and drops progress for milestones left out.
func (h *TaskTypeHandler) UpdateTaskType(c *gin.Context) {
	type UpdateTaskTypeRequest struct {
		Name           *string             `json:"name"`
		Description    *string             `json:"description"`
		Category       *string             `json:"category"`
		EstimatedHours *float64            `json:"estimatedHours" binding:"omitempty,gte=0"`
		IsActive       *bool               `json:"isActive"`
		Milestones     *[]MilestoneRequest `json:"milestones" binding:"omitempty,dive"`
	}

	var req UpdateTaskTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	input := services.UpdateTaskTypeInput{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		EstimatedHours: req.EstimatedHours,
		IsActive:       req.IsActive,
	}
	if req.Milestones != nil {
		milestones := toMilestones(*req.Milestones)
		input.Milestones = &milestones
	}

	taskType, err := h.taskTypeService.UpdateTaskType(c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskType)
}

func (h *TaskTypeHandler) DeleteTaskType(c *gin.Context) {
	if err := h.taskTypeService.DeleteTaskType(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task type deleted successfully"})
}
