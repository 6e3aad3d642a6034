package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/auth"
)

// LoginRequest contains the credentials for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the self-service sign up form. The role is always staff.
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// ForgotPasswordRequest asks for a reset link to be emailed
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

// ResetPasswordRequest sets a new password using an emailed token
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// RefreshTokenRequest carries the refresh token to exchange
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse is an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// CreateUserRequest is used by admins to register a profile
type CreateUserRequest struct {
	FullName string `json:"full_name" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"required,oneof=admin manager staff"`
}

// UpdateProfileRequest changes the actor's own display name
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required,min=3,max=100"`
}

// ChangePasswordRequest replaces the actor's own password
type ChangePasswordRequest struct {
	Password        string `json:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// UserListFilter filters the user list
type UserListFilter struct {
	Search   string `form:"search" binding:"max=100"`
	Role     string `form:"role" binding:"omitempty,oneof=admin manager staff"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// UserResponse is the public view of a profile
type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	FullName  string      `json:"full_name"`
	Email     string      `json:"email"`
	Role      shared.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ToUserResponse converts a profile to its response; the hash never leaves
func ToUserResponse(p *identity.Profile) UserResponse {
	return UserResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToUserResponses converts a slice of profiles
func ToUserResponses(profiles []identity.Profile) []UserResponse {
	responses := make([]UserResponse, len(profiles))
	for i := range profiles {
		responses[i] = ToUserResponse(&profiles[i])
	}
	return responses
}

func toTokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}
