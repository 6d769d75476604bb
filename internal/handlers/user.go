package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/officedesk/internal/dto"
	apierrors "github.com/yukikurage/officedesk/internal/errors"
	"github.com/yukikurage/officedesk/internal/models"
	"github.com/yukikurage/officedesk/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns every user. Non-admins need the list to pick
// assignees and mentions.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users := h.userService.ListUsers()
	if c.Query("active") == "true" {
		kept := users[:0]
		for _, u := range users {
			if u.IsActive {
				kept = append(kept, u)
			}
		}
		users = kept
	}
	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Name       string          `json:"name" binding:"required"`
		Email      string          `json:"email" binding:"required,email"`
		Password   string          `json:"password" binding:"required"`
		Role       models.UserRole `json:"role" binding:"omitempty,oneof=admin user"`
		Department string          `json:"department"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	user, err := h.userService.CreateUser(services.CreateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		Name       *string            `json:"name"`
		Email      *string            `json:"email" binding:"omitempty,email"`
		Password   *string            `json:"password"`
		Role       *models.UserRole   `json:"role" binding:"omitempty,oneof=admin user"`
		Status     *models.UserStatus `json:"status" binding:"omitempty,oneof=active inactive"`
		Department *string            `json:"department"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Param("id"), services.UpdateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Status:     req.Status,
		Department: req.Department,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Param("id"), actor); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
