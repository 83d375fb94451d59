package friendship

import (
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// SendRequestRequest represents the request body for a friend request
type SendRequestRequest struct {
	AddresseeID uuid.UUID `json:"addressee_id" validate:"required"`
}

// FriendshipResponse represents a single friendship record
type FriendshipResponse struct {
	ID          uuid.UUID               `json:"id"`
	RequesterID uuid.UUID               `json:"requester_id"`
	AddresseeID uuid.UUID               `json:"addressee_id"`
	Status      access.FriendshipStatus `json:"status"`
	CreatedAt   string                  `json:"created_at"`
	UpdatedAt   string                  `json:"updated_at"`
}

// PartyResponse is the other member in a connection
type PartyResponse struct {
	ID        uuid.UUID   `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     *string     `json:"email,omitempty"`
	Bio       *string     `json:"bio,omitempty"`
	Role      access.Role `json:"role"`
}

// ConnectionResponse is one entry of the friends view
type ConnectionResponse struct {
	FriendshipResponse
	Friend PartyResponse `json:"friend"`
}

// FriendsResponse groups the viewer's connections
type FriendsResponse struct {
	Friends  []*ConnectionResponse `json:"friends"`
	Incoming []*ConnectionResponse `json:"incoming"`
	Sent     []*ConnectionResponse `json:"sent"`
}

func toResponse(f *access.Friendship) *FriendshipResponse {
	return &FriendshipResponse{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		AddresseeID: f.AddresseeID,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   f.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// viewAs renders c for viewer. The bio follows the other party's profile
// setting and the email its email setting.
func (c *Connection) viewAs(viewer uuid.UUID) *ConnectionResponse {
	resp := &ConnectionResponse{
		FriendshipResponse: *toResponse(c.Friendship),
		Friend: PartyResponse{
			ID:        c.Other.ID,
			FirstName: c.Other.FirstName,
			LastName:  c.Other.LastName,
			Role:      c.Other.Role,
		},
	}
	if access.CanViewField(viewer, c.Other.ID, c.Other.ProfileVisibility, c.Friendship.Status) {
		resp.Friend.Bio = c.Other.Bio
	}
	if access.CanViewField(viewer, c.Other.ID, c.Other.EmailVisibility, c.Friendship.Status) {
		email := c.Other.Email
		resp.Friend.Email = &email
	}
	return resp
}
