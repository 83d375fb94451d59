package access

import (
	"fmt"

	"github.com/google/uuid"
)

// FieldSettings are a subject's stored visibility choices
type FieldSettings struct {
	Profile FieldVisibility
	Phone   FieldVisibility
	Email   FieldVisibility
}

// DefaultFieldSettings is what a new profile starts with
func DefaultFieldSettings() FieldSettings {
	return FieldSettings{Profile: FieldFriends, Phone: FieldFriends, Email: FieldFriends}
}

// For returns the setting that governs field
func (s FieldSettings) For(field Field) (FieldVisibility, error) {
	switch field {
	case FieldProfile:
		return s.Profile, nil
	case FieldPhone:
		return s.Phone, nil
	case FieldEmail:
		return s.Email, nil
	default:
		return "", fmt.Errorf("field %q: %w", field, ErrInvalidValue)
	}
}

// CanViewField decides whether viewer may see a field of subject that is
// stored with the given setting. state is the friendship status between the
// two accounts, FriendshipAbsent when there is no record.
func CanViewField(viewer, subject uuid.UUID, setting FieldVisibility, state FriendshipStatus) bool {
	if viewer == subject {
		return true
	}

	switch setting {
	case FieldPublic:
		return true
	case FieldFriends:
		return state == FriendshipAccepted
	default:
		// private, and anything unrecognised
		return false
	}
}

// Content is the part of a message, event or mailing list that visibility
// depends on
type Content struct {
	CreatedBy  uuid.UUID
	Visibility ContentVisibility
}

// CanViewContent decides whether viewer, holding role, may see item. state is
// the friendship status between viewer and the item's creator.
func CanViewContent(viewer uuid.UUID, role Role, item Content, state FriendshipStatus) bool {
	if viewer == item.CreatedBy {
		return true
	}
	if !role.Valid() {
		return false
	}

	switch item.Visibility {
	case ContentPublic:
		return true
	case ContentFriends:
		return state == FriendshipAccepted
	case ContentLeaders:
		return role == RoleLeader || role == RoleAdmin
	case ContentAdmin:
		return role == RoleAdmin
	default:
		return false
	}
}

// ContentFilter binds CanViewContent to one viewer and a snapshot of the
// viewer's friendships, for filtering a batch of items
func ContentFilter(viewer Viewer, friendships []*Friendship) func(Content) bool {
	return func(item Content) bool {
		state := StatusBetween(friendships, viewer.ID, item.CreatedBy)
		return CanViewContent(viewer.ID, viewer.Role, item, state)
	}
}
