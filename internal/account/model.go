package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// Account is a login identity. Its profile lives in user_profiles under the same ID.
type Account struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         access.Role `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
}
