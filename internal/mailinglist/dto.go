package mailinglist

import (
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// CreateMailingListRequest represents the request body for creating a list
type CreateMailingListRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	PrivacyLevel string `json:"privacy_level" validate:"required,oneof=public friends leaders admin"`
}

// SendRequest represents the request body for broadcasting to a list
type SendRequest struct {
	Subject string `json:"subject" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// MailingListResponse represents the response for a single list
type MailingListResponse struct {
	ID           uuid.UUID                `json:"id"`
	Name         string                   `json:"name"`
	Description  string                   `json:"description,omitempty"`
	PrivacyLevel access.ContentVisibility `json:"privacy_level"`
	CreatedBy    uuid.UUID                `json:"created_by"`
	CreatorName  string                   `json:"creator_name,omitempty"`
	MemberCount  int                      `json:"member_count"`
	IsMember     bool                     `json:"is_member"`
	CreatedAt    string                   `json:"created_at"`
}

// MemberResponse represents one member of a list. Email is omitted when the
// member keeps it from the viewer.
type MemberResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     *string   `json:"email,omitempty"`
	JoinedAt  string    `json:"joined_at"`
}

// MailingListDetailResponse is a list together with its members
type MailingListDetailResponse struct {
	*MailingListResponse
	Members []*MemberResponse `json:"members"`
}

// SendResponse reports a broadcast
type SendResponse struct {
	MessageID  uuid.UUID `json:"message_id"`
	Title      string    `json:"title"`
	Recipients int       `json:"recipients"`
}

// ToResponse converts a MailingList model to a MailingListResponse DTO
func (l *MailingList) ToResponse() *MailingListResponse {
	return &MailingListResponse{
		ID:           l.ID,
		Name:         l.Name,
		Description:  l.Description,
		PrivacyLevel: l.PrivacyLevel,
		CreatedBy:    l.CreatedBy,
		CreatorName:  l.CreatorName,
		MemberCount:  l.MemberCount,
		IsMember:     l.IsMember,
		CreatedAt:    l.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// viewAs renders a member for viewer, redacting the email per its visibility
func (m *Member) viewAs(viewer uuid.UUID, friendships []*access.Friendship) *MemberResponse {
	resp := &MemberResponse{
		UserID:    m.UserID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		JoinedAt:  m.JoinedAt.UTC().Format(time.RFC3339),
	}
	state := access.StatusBetween(friendships, viewer, m.UserID)
	if access.CanViewField(viewer, m.UserID, m.EmailVisibility, state) {
		email := m.Email
		resp.Email = &email
	}
	return resp
}
