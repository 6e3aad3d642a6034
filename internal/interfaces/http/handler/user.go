package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/ims/backend/internal/application/identity"
	"github.com/ims/backend/internal/domain/shared"
)

// UserService is the profile API the identity endpoints drive
type UserService interface {
	Create(ctx context.Context, actor shared.Actor, req identity.CreateUserRequest) (*identity.UserResponse, error)
	List(ctx context.Context, actor shared.Actor, filter identity.UserListFilter) ([]identity.UserResponse, int64, error)
	GetMe(ctx context.Context, actor shared.Actor) (*identity.UserResponse, error)
	UpdateMe(ctx context.Context, actor shared.Actor, req identity.UpdateProfileRequest) (*identity.UserResponse, error)
	ChangePassword(ctx context.Context, actor shared.Actor, req identity.ChangePasswordRequest) error
}

// UserHandler handles profile endpoints
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create godoc
// @Summary      Register a user
// @Description  Admin only
// @Tags         identity
// @Accept       json
// @Produce      json
// @Param        request body identity.CreateUserRequest true "User"
// @Success      201 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req identity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	user, err := h.userService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List godoc
// @Summary      List users
// @Description  Admin only
// @Tags         identity
// @Produce      json
// @Param        search query string false "Name or email search"
// @Param        role query string false "Role" Enums(admin, manager, staff)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]identity.UserResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter identity.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	users, total, err := h.userService.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, users, total, filter.Page, filter.PageSize)
}

// GetMe godoc
// @Summary      Current profile
// @Tags         identity
// @Produce      json
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Security     BearerAuth
// @Router       /identity/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetMe(c.Request.Context(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateMe godoc
// @Summary      Update current profile
// @Tags         identity
// @Accept       json
// @Produce      json
// @Param        request body identity.UpdateProfileRequest true "Profile"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req identity.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	user, err := h.userService.UpdateMe(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword godoc
// @Summary      Change own password
// @Tags         identity
// @Accept       json
// @Produce      json
// @Param        request body identity.ChangePasswordRequest true "Passwords"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /identity/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req identity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.userService.ChangePassword(c.Request.Context(), actor(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password updated"})
}
