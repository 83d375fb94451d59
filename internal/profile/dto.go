package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

// UpdateProfileRequest represents the request body for editing one's own profile.
// Nil fields are left unchanged; an empty phone or bio clears it.
type UpdateProfileRequest struct {
	FirstName         *string `json:"first_name,omitempty"`
	LastName          *string `json:"last_name,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	ProfileVisibility *string `json:"profile_visibility,omitempty" validate:"omitempty,oneof=public friends private"`
	PhoneVisibility   *string `json:"phone_visibility,omitempty" validate:"omitempty,oneof=public friends private"`
	EmailVisibility   *string `json:"email_visibility,omitempty" validate:"omitempty,oneof=public friends private"`
}

// VisibilityResponse is only shown to the owner
type VisibilityResponse struct {
	Profile access.FieldVisibility `json:"profile"`
	Phone   access.FieldVisibility `json:"phone"`
	Email   access.FieldVisibility `json:"email"`
}

// ProfileResponse is a profile as one viewer may see it. Hidden fields are omitted.
type ProfileResponse struct {
	ID               uuid.UUID               `json:"id"`
	FirstName        string                  `json:"first_name"`
	LastName         string                  `json:"last_name"`
	Email            *string                 `json:"email,omitempty"`
	Phone            *string                 `json:"phone,omitempty"`
	Bio              *string                 `json:"bio,omitempty"`
	Role             access.Role             `json:"role"`
	FriendshipStatus access.FriendshipStatus `json:"friendship_status"`
	FriendshipID     *uuid.UUID              `json:"friendship_id,omitempty"`
	Visibility       *VisibilityResponse     `json:"visibility,omitempty"`
	UpdatedAt        string                  `json:"updated_at"`
}

// ViewAs renders p for viewer given their relationship f, which may be nil.
// The profile-level setting is assumed to have been checked already.
func (p *Profile) ViewAs(viewer uuid.UUID, f *access.Friendship) *ProfileResponse {
	state := access.StatusOf(f)

	resp := &ProfileResponse{
		ID:               p.ID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Bio:              p.Bio,
		Role:             p.Role,
		FriendshipStatus: state,
		UpdatedAt:        p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if f != nil {
		id := f.ID
		resp.FriendshipID = &id
	}

	visible := func(field access.Field) bool {
		setting, err := p.Visibility.For(field)
		return err == nil && access.CanViewField(viewer, p.ID, setting, state)
	}
	if visible(access.FieldEmail) {
		email := p.Email
		resp.Email = &email
	}
	if visible(access.FieldPhone) {
		resp.Phone = p.Phone
	}

	if viewer == p.ID {
		resp.Visibility = &VisibilityResponse{
			Profile: p.Visibility.Profile,
			Phone:   p.Visibility.Phone,
			Email:   p.Visibility.Email,
		}
	}
	return resp
}
