package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// Profile is the directory entry of an account
type Profile struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	Phone      *string
	Bio        *string
	Role       access.Role
	Visibility access.FieldSettings
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName joins first and last name
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
