package handler

import (
	"time"

	identityapp "github.com/storefront/backend/internal/application/identity"
)

// RegisterRequest represents a new account request
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=200"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"firstName" binding:"max=100"`
	LastName  string `json:"lastName" binding:"max=100"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on a successful login. The session token is
// also set as an HttpOnly cookie; the body copy serves Bearer clients.
type LoginResponse struct {
	User      identityapp.UserResponse `json:"user"`
	Token     string                   `json:"token"`
	ExpiresAt time.Time                `json:"expiresAt"`
}

// UpdateProfileRequest represents a profile upsert
type UpdateProfileRequest struct {
	FirstName       *string `json:"firstName" binding:"omitempty,max=100"`
	LastName        *string `json:"lastName" binding:"omitempty,max=100"`
	ProfileImageURL *string `json:"profileImageUrl" binding:"omitempty,max=500"`
}
