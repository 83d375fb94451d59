package mailinglist

import (
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// MailingList is an opt-in list members can join and broadcast to
type MailingList struct {
	ID           uuid.UUID
	Name         string
	Description  string
	PrivacyLevel access.ContentVisibility
	CreatedBy    uuid.UUID
	CreatedAt    time.Time

	// Populated per viewer
	CreatorName string
	MemberCount int
	IsMember    bool
}

func (l *MailingList) accessContent() access.Content {
	return access.Content{CreatedBy: l.CreatedBy, Visibility: l.PrivacyLevel}
}

// Member represents an account's membership in a list
type Member struct {
	ListID   uuid.UUID
	UserID   uuid.UUID
	JoinedAt time.Time

	// Populated from JOIN
	FirstName       string
	LastName        string
	Email           string
	EmailVisibility access.FieldVisibility
	Role            access.Role
}
