package friendship

import (
	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// Party is the other side of a friendship as shown in the friends view
type Party struct {
	ID                uuid.UUID
	FirstName         string
	LastName          string
	Email             string
	Bio               *string
	Role              access.Role
	ProfileVisibility access.FieldVisibility
	EmailVisibility   access.FieldVisibility
}

// Connection is a friendship joined with the other party's profile
type Connection struct {
	Friendship *access.Friendship
	Other      Party
}
