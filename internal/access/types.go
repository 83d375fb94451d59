// Package access holds the visibility and relationship rules of the
// community: who may see which profile fields and content items, who may
// publish at which visibility tier, and how friendships move between states.
//
// Everything here is a pure function of its arguments. Callers fetch a
// snapshot of rows, pass them in, and act on the decision.
package access

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Decision errors. Callers match them with errors.Is.
var (
	ErrUnauthorized          = errors.New("not authorized to perform this action")
	ErrInvalidState          = errors.New("action not allowed in the current state")
	ErrDuplicateRelationship = errors.New("a friendship already exists between these accounts")
	ErrNotFound              = errors.New("not found")
	ErrInvalidValue          = errors.New("invalid value")
)

// Role is the community role assigned to an account
type Role string

const (
	RoleMember Role = "member"
	RoleLeader Role = "leader"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleLeader, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a stored or submitted string into a Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("role %q: %w", s, ErrInvalidValue)
	}
	return r, nil
}

// Viewer is the authenticated account a decision is made for
type Viewer struct {
	ID   uuid.UUID
	Role Role
}

// FieldVisibility is the audience of a profile field
type FieldVisibility string

const (
	FieldPublic  FieldVisibility = "public"
	FieldFriends FieldVisibility = "friends"
	FieldPrivate FieldVisibility = "private"
)

// Valid reports whether v is a known field visibility
func (v FieldVisibility) Valid() bool {
	switch v {
	case FieldPublic, FieldFriends, FieldPrivate:
		return true
	}
	return false
}

// ParseFieldVisibility converts a string into a FieldVisibility
func ParseFieldVisibility(s string) (FieldVisibility, error) {
	v := FieldVisibility(s)
	if !v.Valid() {
		return "", fmt.Errorf("field visibility %q: %w", s, ErrInvalidValue)
	}
	return v, nil
}

// ContentVisibility is the audience of a message, calendar event or mailing list
type ContentVisibility string

const (
	ContentPublic  ContentVisibility = "public"
	ContentFriends ContentVisibility = "friends"
	ContentLeaders ContentVisibility = "leaders"
	ContentAdmin   ContentVisibility = "admin"
)

// Valid reports whether v is a known content visibility
func (v ContentVisibility) Valid() bool {
	switch v {
	case ContentPublic, ContentFriends, ContentLeaders, ContentAdmin:
		return true
	}
	return false
}

// ParseContentVisibility converts a string into a ContentVisibility
func ParseContentVisibility(s string) (ContentVisibility, error) {
	v := ContentVisibility(s)
	if !v.Valid() {
		return "", fmt.Errorf("content visibility %q: %w", s, ErrInvalidValue)
	}
	return v, nil
}

// FriendshipStatus is the state of the relationship between two accounts.
// FriendshipAbsent is never stored; it stands for "no record".
type FriendshipStatus string

const (
	FriendshipAbsent   FriendshipStatus = "absent"
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipDeclined FriendshipStatus = "declined"
)

// Valid reports whether s is a status that can be stored
func (s FriendshipStatus) Valid() bool {
	switch s {
	case FriendshipPending, FriendshipAccepted, FriendshipDeclined:
		return true
	}
	return false
}

// ParseFriendshipStatus converts a stored string into a FriendshipStatus
func ParseFriendshipStatus(s string) (FriendshipStatus, error) {
	st := FriendshipStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("friendship status %q: %w", s, ErrInvalidValue)
	}
	return st, nil
}

// Field names a visibility-scoped part of a profile
type Field string

const (
	FieldProfile Field = "profile"
	FieldPhone   Field = "phone"
	FieldEmail   Field = "email"
)

// MessageType classifies messages in the feed
type MessageType string

const (
	MessageAnnouncement  MessageType = "announcement"
	MessagePrayerRequest MessageType = "prayer_request"
	MessageGeneral       MessageType = "general"
)

// Valid reports whether t is a known message type
func (t MessageType) Valid() bool {
	switch t {
	case MessageAnnouncement, MessagePrayerRequest, MessageGeneral:
		return true
	}
	return false
}

// ParseMessageType converts a string into a MessageType
func ParseMessageType(s string) (MessageType, error) {
	t := MessageType(s)
	if !t.Valid() {
		return "", fmt.Errorf("message type %q: %w", s, ErrInvalidValue)
	}
	return t, nil
}
