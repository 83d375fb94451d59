package message

import (
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// CreateMessageRequest represents the request body for posting a message
type CreateMessageRequest struct {
	Title       string `json:"title" validate:"required"`
	Content     string `json:"content" validate:"required"`
	MessageType string `json:"message_type" validate:"required,oneof=announcement prayer_request general"`
	Visibility  string `json:"visibility" validate:"required,oneof=public friends leaders admin"`
}

// MessageResponse represents the response for a single message
type MessageResponse struct {
	ID          uuid.UUID                `json:"id"`
	Title       string                   `json:"title"`
	Content     string                   `json:"content"`
	MessageType access.MessageType       `json:"message_type"`
	Visibility  access.ContentVisibility `json:"visibility"`
	CreatedBy   uuid.UUID                `json:"created_by"`
	CreatorName string                   `json:"creator_name,omitempty"`
	CreatorRole access.Role              `json:"creator_role,omitempty"`
	CreatedAt   string                   `json:"created_at"`
}

// VisibilityOptionsResponse lists the tiers the caller may publish at
type VisibilityOptionsResponse struct {
	Role    access.Role                `json:"role"`
	Options []access.ContentVisibility `json:"options"`
}

// ToResponse converts a Message model to a MessageResponse DTO
func (m *Message) ToResponse() *MessageResponse {
	return &MessageResponse{
		ID:          m.ID,
		Title:       m.Title,
		Content:     m.Content,
		MessageType: m.Type,
		Visibility:  m.Visibility,
		CreatedBy:   m.CreatedBy,
		CreatorName: m.CreatorName,
		CreatorRole: m.CreatorRole,
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
