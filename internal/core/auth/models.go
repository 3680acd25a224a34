package auth

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleSuperAdmin  UserRole = "super_admin"
	RoleOrgAdmin    UserRole = "org_admin"
	RoleFormCreator UserRole = "form_creator"
	RoleViewer      UserRole = "viewer"
)

type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	PasswordHash   string     `json:"-"`
	FullName       string     `json:"full_name,omitempty"`
	Role           UserRole   `json:"role"`
	IsActive       bool       `json:"is_active"`
	IsVerified     bool       `json:"is_verified"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type Organization struct {
	ID                     uuid.UUID      `json:"id"`
	Name                   string         `json:"name"`
	Slug                   string         `json:"slug"`
	Plan                   string         `json:"plan"`
	MaxForms               int            `json:"max_forms"`
	MaxSubmissionsPerMonth int            `json:"max_submissions_per_month"`
	Settings               map[string]any `json:"settings,omitempty"`
	CreatedAt              time.Time      `json:"created_at"`
}

type APIKey struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"`
	Scopes     []string   `json:"scopes"`
	IsActive   bool       `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Expired reports whether the key has passed its expiry, if it has one.
func (k *APIKey) Expired() bool {
	return k.ExpiresAt != nil && k.ExpiresAt.Before(time.Now())
}

// API key scopes
const (
	ScopeRead   = "read"
	ScopeWrite  = "write"
	ScopeDelete = "delete"
)

var DefaultScopes = []string{ScopeRead}

// Request/Response types
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=100"`
	FullName string `json:"full_name" binding:"max=100"`
}

type LoginRequest struct {
	// Login accepts either an email address or a username.
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=100"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Username *string `json:"username"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type AuthResponse struct {
	TokenPair
	User *User `json:"user"`
}

type CreateAPIKeyRequest struct {
	Name          string   `json:"name" binding:"required,min=1,max=100"`
	Scopes        []string `json:"scopes"`
	ExpiresInDays *int     `json:"expires_in_days"`
}

// CreateAPIKeyResponse carries the raw key; it is shown exactly once.
type CreateAPIKeyResponse struct {
	APIKey *APIKey `json:"api_key"`
	Key    string  `json:"key"`
}
