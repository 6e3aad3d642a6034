package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/ims/backend/internal/application/identity"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/auth"
	"github.com/ims/backend/internal/interfaces/http/middleware"
)

// AuthService is the session and account API the auth endpoints drive
type AuthService interface {
	Register(ctx context.Context, req identity.RegisterRequest) (*identity.UserResponse, error)
	ForgotPassword(ctx context.Context, req identity.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req identity.ResetPasswordRequest) error
	Login(ctx context.Context, req identity.LoginRequest) (*identity.LoginResponse, error)
	RefreshToken(ctx context.Context, req identity.RefreshTokenRequest) (*identity.TokenResponse, error)
	Logout(ctx context.Context, actor shared.Actor, claims *auth.Claims) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary      Sign up
// @Description  Create a staff account with name, email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RegisterRequest true "Account details"
// @Success      201 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// ForgotPassword godoc
// @Summary      Request a password reset
// @Description  Email a reset link if the address belongs to an account. The response is the same either way.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.ForgotPasswordRequest true "Account email"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req identity.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "If the email is registered, a reset link has been sent"})
}

// ResetPassword godoc
// @Summary      Reset password
// @Description  Set a new password with the token from the reset email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.ResetPasswordRequest true "Token and new password"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req identity.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password updated"})
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password and receive a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[identity.LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RefreshToken godoc
// @Summary      Refresh tokens
// @Description  Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RefreshTokenRequest true "Refresh token"
// @Success      200 {object} APIResponse[identity.TokenResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req identity.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Logout godoc
// @Summary      Logout
// @Description  Revoke the presented access token
// @Tags         auth
// @Produce      json
// @Success      200 {object} SuccessResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), actor(c), middleware.GetJWTClaims(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out"})
}
