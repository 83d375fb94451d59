package message

import (
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// Message is a post in the community feed
type Message struct {
	ID         uuid.UUID
	Title      string
	Content    string
	Type       access.MessageType
	Visibility access.ContentVisibility
	CreatedBy  uuid.UUID
	CreatedAt  time.Time

	// Creator details, filled by list queries
	CreatorName string
	CreatorRole access.Role
}

// AccessContent returns the fields visibility decisions depend on
func (m *Message) AccessContent() access.Content {
	return access.Content{CreatedBy: m.CreatedBy, Visibility: m.Visibility}
}
