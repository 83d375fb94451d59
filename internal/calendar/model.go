package calendar

import (
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// Event is an entry on the shared calendar
type Event struct {
	ID          uuid.UUID
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	Visibility  access.ContentVisibility
	CreatedBy   uuid.UUID
	CreatedAt   time.Time

	CreatorName string
}

func (e *Event) accessContent() access.Content {
	return access.Content{CreatedBy: e.CreatedBy, Visibility: e.Visibility}
}
