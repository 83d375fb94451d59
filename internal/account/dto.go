package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// SignupRequest represents the request body for creating an account
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token for rotation or logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ChangeRoleRequest represents the request body for assigning a role
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member leader admin"`
}

// AccountResponse represents the response for a single account
type AccountResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Role      access.Role `json:"role"`
	CreatedAt string      `json:"created_at"`
}

// AuthResponse is returned by signup, login and refresh
type AuthResponse struct {
	Account      *AccountResponse `json:"account"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int64            `json:"expires_in"`
}

// ToResponse converts an Account model to an AccountResponse DTO
func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
