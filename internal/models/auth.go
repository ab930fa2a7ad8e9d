package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest holds the payload for creating an account.
type RegisterRequest struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Role     UserRole `json:"role" validate:"required,oneof=admin teacher student"`
}

// LoginRequest holds credentials for authenticating a user. The role
// acts as a claim the stored account must match.
type LoginRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required"`
	Role     UserRole `json:"role" validate:"required,oneof=admin teacher student"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expires_in"`
	User      UserInfo `json:"user"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Role   UserRole       `json:"role"`
	Status ApprovalStatus `json:"status"`
}

// UpdateProfileRequest is the owner-gated profile mutation payload.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the acting identity resolved by the access-control
// layer and threaded to handlers. It is the freshly loaded user, not
// the token claims, so a status change takes effect on the next
// request.
type Principal struct {
	ID     string
	Name   string
	Email  string
	Role   UserRole
	Status ApprovalStatus
}

// PrincipalFromUser builds the acting principal for a resolved user.
func PrincipalFromUser(u *User) *Principal {
	return &Principal{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	}
}
