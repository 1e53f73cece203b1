package request

import (
	"time"
)

// LoginRequest represents an operator login at the register
type LoginRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	PIN  string `json:"pin" binding:"required,min=4,max=12,numeric"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateUserRequest represents a new operator
type CreateUserRequest struct {
	Name      string     `json:"name" binding:"required,max=255"`
	PIN       string     `json:"pin" binding:"required,min=4,max=12,numeric"`
	Role      string     `json:"role" binding:"omitempty,oneof=cashier manager"`
	ValidFrom *time.Time `json:"valid_from"`
}

// UpdateUserRequest changes an operator from now on
type UpdateUserRequest struct {
	PIN  *string `json:"pin" binding:"omitempty,min=4,max=12,numeric"`
	Role *string `json:"role" binding:"omitempty,oneof=cashier manager"`
}
