package handler

import (
	identityapp "github.com/brandcert/backend/internal/application/identity"
	securityapp "github.com/brandcert/backend/internal/application/security"
	"github.com/brandcert/backend/internal/domain/security"
	"github.com/brandcert/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler handles registration, login, token lifecycle and the
// caller's own sessions
type AuthHandler struct {
	BaseHandler
	authService     *identityapp.AuthService
	securityService *securityapp.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, securityService *securityapp.Service) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		securityService: securityService,
	}
}

// Register godoc
// @ID           register
// @Summary      Register a brand with its owner account
// @Description  Creates a new brand in pending status together with its first (owner) user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration request"
// @Success      201 {object} APIResponse[identityapp.RegisterResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identityapp.RegisterInput{
		BrandCode:    req.BrandCode,
		BrandName:    req.BrandName,
		Industry:     req.Industry,
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		CaptchaToken: req.CaptchaToken,
		IP:           c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Login godoc
// @ID           login
// @Summary      Authenticate a user
// @Description  Verifies credentials and returns an access/refresh token pair plus a tracked session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[identityapp.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Username:     req.Username,
		Password:     req.Password,
		CaptchaToken: req.CaptchaToken,
		IP:           c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RefreshToken godoc
// @ID           refreshToken
// @Summary      Rotate a token pair
// @Description  Exchanges a refresh token for a new access/refresh pair; the replaced pair is blacklisted
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} APIResponse[identityapp.RefreshTokenResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), identityapp.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
		IP:           c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Logout godoc
// @ID           logout
// @Summary      End the current session
// @Description  Blacklists the presented access token and revokes its session
// @Tags         auth
// @Produce      json
// @Success      200 {object} SuccessResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	input := identityapp.LogoutInput{
		BrandID:   brandID,
		UserID:    userID,
		TokenID:   claims.ID,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if claims.ExpiresAt != nil {
		input.TokenExpiresAt = claims.ExpiresAt.Time
	}

	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Logged out"})
}

// GetCurrentUser godoc
// @ID           getCurrentUser
// @Summary      Get the authenticated user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	info, err := h.authService.GetCurrentUser(c.Request.Context(), brandID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ChangePassword godoc
// @ID           changePassword
// @Summary      Change the authenticated user's password
// @Description  Re-hashes the password and revokes every other session of the user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Old and new password"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/me/password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	err = h.authService.ChangePassword(c.Request.Context(), identityapp.ChangePasswordInput{
		BrandID:     brandID,
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
		IP:          c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password changed"})
}

// ListSessions godoc
// @ID           listSessions
// @Summary      List the caller's active sessions
// @Description  Returns the user's active sessions with the current one flagged
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[[]securityapp.SessionDTO]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/sessions [get]
func (h *AuthHandler) ListSessions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	currentTokenID := ""
	if claims := middleware.GetJWTClaims(c); claims != nil {
		currentTokenID = claims.ID
	}

	sessions, err := h.securityService.ListSessions(c.Request.Context(), userID, currentTokenID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sessions)
}

// RevokeSession godoc
// @ID           revokeSession
// @Summary      Revoke one of the caller's sessions
// @Description  Ends the session and blacklists its tokens
// @Tags         auth
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/sessions/{id} [delete]
func (h *AuthHandler) RevokeSession(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	if err := h.securityService.RevokeSession(c.Request.Context(), userID, sessionID, security.RevokeReasonAdmin); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RevokeAllSessions godoc
// @ID           revokeAllSessions
// @Summary      Revoke every session of the caller
// @Description  Ends all active sessions, including the current one
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/sessions [delete]
func (h *AuthHandler) RevokeAllSessions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user identity")
		return
	}
	brandID, err := getBrandID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid brand identity")
		return
	}

	revoked, err := h.securityService.RevokeAllSessions(c.Request.Context(), brandID, userID, security.RevokeReasonAdmin)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CountData{Count: revoked})
}
