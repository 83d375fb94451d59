package access

import (
	"time"

	"github.com/google/uuid"
)

// Friendship is a relationship record between two distinct accounts
type Friendship struct {
	ID          uuid.UUID        `json:"id"`
	RequesterID uuid.UUID        `json:"requester_id"`
	AddresseeID uuid.UUID        `json:"addressee_id"`
	Status      FriendshipStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewFriendship opens a pending request from requester to addressee.
// existing is whatever record already links the pair, in either direction.
func NewFriendship(requester, addressee uuid.UUID, existing *Friendship, now time.Time) (*Friendship, error) {
	if requester == addressee {
		return nil, ErrInvalidState
	}
	if existing != nil {
		return nil, ErrDuplicateRelationship
	}

	return &Friendship{
		RequesterID: requester,
		AddresseeID: addressee,
		Status:      FriendshipPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Involves reports whether id is one of the two parties
func (f *Friendship) Involves(id uuid.UUID) bool {
	return f.RequesterID == id || f.AddresseeID == id
}

// Other returns the party that is not id
func (f *Friendship) Other(id uuid.UUID) uuid.UUID {
	if f.RequesterID == id {
		return f.AddresseeID
	}
	return f.RequesterID
}

// Accept moves a pending request to accepted. Only the addressee may do it.
func (f *Friendship) Accept(actor uuid.UUID, now time.Time) error {
	return f.respond(actor, FriendshipAccepted, now)
}

// Decline moves a pending request to declined. Only the addressee may do it.
func (f *Friendship) Decline(actor uuid.UUID, now time.Time) error {
	return f.respond(actor, FriendshipDeclined, now)
}

func (f *Friendship) respond(actor uuid.UUID, to FriendshipStatus, now time.Time) error {
	if !f.Involves(actor) {
		return ErrUnauthorized
	}
	if f.Status != FriendshipPending {
		return ErrInvalidState
	}
	if actor != f.AddresseeID {
		return ErrUnauthorized
	}

	f.Status = to
	f.UpdatedAt = now
	return nil
}

// CheckRemove validates deleting f on behalf of actor: cancelling a pending
// request or removing an accepted friend. A nil f means there is nothing to
// delete.
func CheckRemove(f *Friendship, actor uuid.UUID) error {
	if f == nil {
		return ErrNotFound
	}
	if !f.Involves(actor) {
		return ErrUnauthorized
	}

	switch f.Status {
	case FriendshipPending, FriendshipAccepted:
		return nil
	default:
		return ErrInvalidState
	}
}

// Find returns the record linking a and b in either direction, or nil
func Find(friendships []*Friendship, a, b uuid.UUID) *Friendship {
	for _, f := range friendships {
		if (f.RequesterID == a && f.AddresseeID == b) || (f.RequesterID == b && f.AddresseeID == a) {
			return f
		}
	}
	return nil
}

// StatusOf returns f's status, FriendshipAbsent for nil
func StatusOf(f *Friendship) FriendshipStatus {
	if f == nil {
		return FriendshipAbsent
	}
	return f.Status
}

// StatusBetween resolves the friendship status of a and b from a snapshot
func StatusBetween(friendships []*Friendship, a, b uuid.UUID) FriendshipStatus {
	return StatusOf(Find(friendships, a, b))
}

// Partition splits a viewer's friendships into accepted friends, pending
// requests addressed to the viewer, and pending requests the viewer sent.
// Declined records belong to none of them.
func Partition(friendships []*Friendship, viewer uuid.UUID) (friends, incoming, sent []*Friendship) {
	for _, f := range friendships {
		if !f.Involves(viewer) {
			continue
		}
		switch {
		case f.Status == FriendshipAccepted:
			friends = append(friends, f)
		case f.Status == FriendshipPending && f.AddresseeID == viewer:
			incoming = append(incoming, f)
		case f.Status == FriendshipPending && f.RequesterID == viewer:
			sent = append(sent, f)
		}
	}
	return friends, incoming, sent
}
