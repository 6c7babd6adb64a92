package handler

import (
	"strconv"

	identityapp "github.com/brandcert/backend/internal/application/identity"
	"github.com/brandcert/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles team member management within a brand
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents a request to add a team member
// @Description Request body for creating a user within the brand
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50" example:"john.smith"`
	Email       string `json:"email" binding:"required,email,max=200" example:"john@acme.example.com"`
	Password    string `json:"password" binding:"required,min=8,max=128" example:"initial-Passw0rd"`
	DisplayName string `json:"display_name" binding:"max=100" example:"John Smith"`
	Role        string `json:"role" binding:"required,oneof=owner admin member viewer" example:"member"`
}

// UpdateUserRequest represents optional user field updates
// @Description Request body for updating a user; omitted fields stay unchanged
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,url,max=500"`
}

// ChangeRoleRequest represents a role assignment
// @Description Request body for changing a user's role
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=owner admin member viewer" example:"admin"`
}

// ResetPasswordRequest represents an administrative password reset
// @Description Request body for resetting a user's password
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128" example:"temp-Passw0rd!"`
}

// Create godoc
// @ID           createUser
// @Summary      Add a team member
// @Description  Creates a user within the brand, enforcing the plan's user quota
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User creation request"
// @Success      201 {object} APIResponse[identityapp.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	actorID, _ := getUserID(c)

	info, err := h.userService.Create(c.Request.Context(), brandID, identityapp.CreateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		CreatedBy:   actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// List godoc
// @ID           listUsers
// @Summary      List the brand's users
// @Tags         users
// @Produce      json
// @Param        keyword query string false "Search keyword (username, email, display name)"
// @Param        role query string false "Filter by role"
// @Param        status query string false "Filter by status"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[identityapp.UserListResult]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.userService.List(c.Request.Context(), brandID, identityapp.ListUsersInput{
		Keyword:  c.Query("keyword"),
		Role:     c.Query("role"),
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
		SortBy:   c.Query("sort_by"),
		SortDir:  c.Query("sort_dir"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Users, result.Total, result.Page, result.PageSize)
}

// GetByID godoc
// @ID           getUser
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	brandID, userID, ok := h.brandAndUserParam(c)
	if !ok {
		return
	}

	info, err := h.userService.GetByID(c.Request.Context(), brandID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Update godoc
// @ID           updateUser
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body UpdateUserRequest true "Field updates"
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	brandID, userID, ok := h.brandAndUserParam(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	info, err := h.userService.Update(c.Request.Context(), brandID, userID, identityapp.UpdateUserInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// UpdateMe godoc
// @ID           updateCurrentUser
// @Summary      Update the authenticated user's own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateUserRequest true "Field updates"
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	info, err := h.userService.Update(c.Request.Context(), brandID, userID, identityapp.UpdateUserInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ChangeRole godoc
// @ID           changeUserRole
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body ChangeRoleRequest true "New role"
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	brandID, userID, ok := h.brandAndUserParam(c)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	info, err := h.userService.ChangeRole(c.Request.Context(), brandID, userID, req.Role)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Activate godoc
// @ID           activateUser
// @Summary      Activate a user account
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	brandID, userID, ok := h.brandAndUserParam(c)
	if !ok {
		return
	}

	info, err := h.userService.Activate(c.Request.Context(), brandID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Deactivate godoc
// @ID           deactivateUser
// @Summary      Deactivate a user account
// @Description  Deactivation revokes the user's sessions; users cannot deactivate themselves
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	brandID, userID, ok := h.brandAndUserParam(c)
	if !ok {
		return
	}

	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	info, err := h.userService.Deactivate(c.Request.Context(), brandID, userID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// Unlock godoc
// @ID           unlockUser
// @Summary      Clear a user's login lockout
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/unlock [post]
func (h *UserHandler) Unlock(c *gin.Context) {
	brandID, userID, ok := h.brandAndUserParam(c)
	if !ok {
		return
	}

	info, err := h.userService.Unlock(c.Request.Context(), brandID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ResetPassword godoc
// @ID           resetUserPassword
// @Summary      Reset a user's password
// @Description  Sets a new password and revokes the user's sessions
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body ResetPasswordRequest true "New password"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	brandID, userID, ok := h.brandAndUserParam(c)
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	actorID, _ := getUserID(c)

	err := h.userService.ResetPassword(c.Request.Context(), identityapp.ResetPasswordInput{
		BrandID:     brandID,
		UserID:      userID,
		NewPassword: req.NewPassword,
		ResetBy:     actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password reset"})
}

// brandAndUserParam resolves the brand from the JWT and the target user
// from the path, writing the error response on failure
func (h *UserHandler) brandAndUserParam(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return uuid.Nil, uuid.Nil, false
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return uuid.Nil, uuid.Nil, false
	}

	return brandID, userID, true
}
