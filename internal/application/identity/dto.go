package identity

import (
	"time"

	"github.com/brandcert/backend/internal/domain/brand"
	"github.com/brandcert/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput contains everything needed to register a brand with its
// first (owner) account
type RegisterInput struct {
	BrandCode    string
	BrandName    string
	Industry     string
	Username     string
	Email        string
	Password     string
	CaptchaToken string
	IP           string
	UserAgent    string
}

// RegisterResult is returned after a successful registration
type RegisterResult struct {
	Brand BrandSummary `json:"brand"`
	User  UserInfo     `json:"user"`
}

// BrandSummary is the compact brand view embedded in auth responses
type BrandSummary struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
	Plan   string    `json:"plan"`
}

// LoginInput contains login credentials
type LoginInput struct {
	Username     string
	Password     string
	CaptchaToken string
	IP           string
	UserAgent    string
}

// LoginResult contains the issued tokens and the logged-in user
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput contains the refresh request
type RefreshTokenInput struct {
	RefreshToken string
	IP           string
	UserAgent    string
}

// RefreshTokenResult contains the rotated token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput identifies the token and session being ended
type LogoutInput struct {
	BrandID        uuid.UUID
	UserID         uuid.UUID
	TokenID        string
	TokenExpiresAt time.Time
	IP             string
	UserAgent      string
}

// ChangePasswordInput contains a password change request
type ChangePasswordInput struct {
	BrandID     uuid.UUID
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
	IP          string
	UserAgent   string
}

// UserInfo is the API view of a user account
type UserInfo struct {
	ID                 uuid.UUID  `json:"id"`
	BrandID            uuid.UUID  `json:"brand_id"`
	Username           string     `json:"username"`
	Email              string     `json:"email,omitempty"`
	DisplayName        string     `json:"display_name,omitempty"`
	AvatarURL          string     `json:"avatar_url,omitempty"`
	Role               string     `json:"role"`
	PlatformAdmin      bool       `json:"platform_admin,omitempty"`
	Status             string     `json:"status"`
	MustChangePassword bool       `json:"must_change_password,omitempty"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// CreateUserInput contains input for creating a team member
type CreateUserInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	Role        string
	CreatedBy   uuid.UUID
}

// UpdateUserInput contains optional field updates for a user.
// Nil pointers leave the field unchanged.
type UpdateUserInput struct {
	Email       *string
	DisplayName *string
	AvatarURL   *string
}

// ListUsersInput contains list query options
type ListUsersInput struct {
	Keyword  string
	Role     string
	Status   string
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
}

// UserListResult is a paginated list of users
type UserListResult struct {
	Users      []UserInfo `json:"users"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// ResetPasswordInput contains an administrative password reset
type ResetPasswordInput struct {
	BrandID     uuid.UUID
	UserID      uuid.UUID
	NewPassword string
	ResetBy     uuid.UUID
}

func toUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:                 user.ID,
		BrandID:            user.BrandID,
		Username:           user.Username,
		Email:              user.Email,
		DisplayName:        user.DisplayName,
		AvatarURL:          user.AvatarURL,
		Role:               string(user.Role),
		PlatformAdmin:      user.PlatformAdmin,
		Status:             string(user.Status),
		MustChangePassword: user.MustChangePassword,
		LastLoginAt:        user.LastLoginAt,
		CreatedAt:          user.CreatedAt,
	}
}

func toBrandSummary(b *brand.Brand) BrandSummary {
	return BrandSummary{
		ID:     b.ID,
		Code:   b.Code,
		Name:   b.Name,
		Status: string(b.Status),
		Plan:   string(b.Plan),
	}
}
