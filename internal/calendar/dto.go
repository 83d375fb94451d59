package calendar

import (
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// CreateEventRequest represents the request body for adding an event.
// Dates are RFC 3339; a missing end date means the event ends when it starts.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date,omitempty"`
	Location    string `json:"location"`
	Visibility  string `json:"visibility" validate:"required,oneof=public friends leaders admin"`
}

// EventResponse represents the response for a single event
type EventResponse struct {
	ID          uuid.UUID                `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description,omitempty"`
	StartDate   string                   `json:"start_date"`
	EndDate     string                   `json:"end_date"`
	Location    string                   `json:"location,omitempty"`
	Visibility  access.ContentVisibility `json:"visibility"`
	CreatedBy   uuid.UUID                `json:"created_by"`
	CreatorName string                   `json:"creator_name,omitempty"`
	CreatedAt   string                   `json:"created_at"`
}

// MonthResponse is the calendar for one month
type MonthResponse struct {
	Year   int              `json:"year"`
	Month  int              `json:"month"`
	Events []*EventResponse `json:"events"`
}

// ToResponse converts an Event model to an EventResponse DTO
func (e *Event) ToResponse() *EventResponse {
	return &EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.StartDate.UTC().Format(time.RFC3339),
		EndDate:     e.EndDate.UTC().Format(time.RFC3339),
		Location:    e.Location,
		Visibility:  e.Visibility,
		CreatedBy:   e.CreatedBy,
		CreatorName: e.CreatorName,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
