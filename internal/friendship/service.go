package friendship

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/internal/database"
	"github.com/fkhayef/fellowship/internal/logging"
	"github.com/fkhayef/fellowship/internal/profile"
)

// Common errors
var (
	ErrFriendshipNotFound = fmt.Errorf("friendship %w", access.ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", access.ErrNotFound)
)

// Store is the persistence the service depends on
type Store interface {
	Create(ctx context.Context, f *access.Friendship) error
	GetByID(ctx context.Context, id uuid.UUID) (*access.Friendship, error)
	FindBetween(ctx context.Context, a, b uuid.UUID) (*access.Friendship, error)
	ListConnections(ctx context.Context, userID uuid.UUID) ([]*Connection, error)
	UpdateStatus(ctx context.Context, f *access.Friendship) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteDeclinedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Profiles resolves the members taking part in a friendship
type Profiles interface {
	GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
}

// Notifier delivers friendship notifications
type Notifier interface {
	NotifyFriendRequest(ctx context.Context, recipientID uuid.UUID, requesterName string, friendshipID uuid.UUID) error
	NotifyFriendAccepted(ctx context.Context, recipientID uuid.UUID, addresseeName string, friendshipID uuid.UUID) error
}

// Service handles friendship business logic
type Service struct {
	repo     Store
	profiles Profiles
	notifier Notifier
	log      logging.Logger
	now      func() time.Time
}

// NewService creates a new friendship service
func NewService(repo Store, profiles Profiles, notifier Notifier, log logging.Logger) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// List returns the viewer's friends, incoming requests and sent requests.
// query filters by the other party's name or visible email.
func (s *Service) List(ctx context.Context, viewer uuid.UUID, query string) (*FriendsResponse, error) {
	connections, err := s.repo.ListConnections(ctx, viewer)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))

	byID := make(map[uuid.UUID]*ConnectionResponse, len(connections))
	friendships := make([]*access.Friendship, 0, len(connections))
	for _, c := range connections {
		view := c.viewAs(viewer)
		if query != "" && !matches(view, query) {
			continue
		}
		byID[c.Friendship.ID] = view
		friendships = append(friendships, c.Friendship)
	}

	friends, incoming, sent := access.Partition(friendships, viewer)

	collect := func(fs []*access.Friendship) []*ConnectionResponse {
		out := make([]*ConnectionResponse, 0, len(fs))
		for _, f := range fs {
			out = append(out, byID[f.ID])
		}
		return out
	}

	return &FriendsResponse{
		Friends:  collect(friends),
		Incoming: collect(incoming),
		Sent:     collect(sent),
	}, nil
}

// SendRequest opens a pending request from viewer to addressee
func (s *Service) SendRequest(ctx context.Context, viewer, addresseeID uuid.UUID) (*access.Friendship, error) {
	addressee, err := s.profiles.GetByID(ctx, addresseeID)
	if err != nil {
		return nil, err
	}
	if addressee == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.repo.FindBetween(ctx, viewer, addresseeID)
	if err != nil {
		return nil, err
	}

	f, err := access.NewFriendship(viewer, addresseeID, existing, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, f); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, access.ErrDuplicateRelationship
		}
		return nil, err
	}

	s.log.Info(ctx, "friend request sent", "friendship_id", f.ID, "requester_id", viewer, "addressee_id", addresseeID)
	s.notify(ctx, viewer, func(name string) error {
		return s.notifier.NotifyFriendRequest(ctx, addresseeID, name, f.ID)
	})
	return f, nil
}

// Accept moves a pending request addressed to viewer to accepted
func (s *Service) Accept(ctx context.Context, viewer, id uuid.UUID) (*access.Friendship, error) {
	f, err := s.respond(ctx, viewer, id, (*access.Friendship).Accept)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, viewer, func(name string) error {
		return s.notifier.NotifyFriendAccepted(ctx, f.RequesterID, name, f.ID)
	})
	return f, nil
}

// Decline moves a pending request addressed to viewer to declined
func (s *Service) Decline(ctx context.Context, viewer, id uuid.UUID) (*access.Friendship, error) {
	return s.respond(ctx, viewer, id, (*access.Friendship).Decline)
}

func (s *Service) respond(ctx context.Context, viewer, id uuid.UUID, transition func(*access.Friendship, uuid.UUID, time.Time) error) (*access.Friendship, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFriendshipNotFound
	}

	if err := transition(f, viewer, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, f)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, access.ErrInvalidState
	}

	s.log.Info(ctx, "friend request answered", "friendship_id", f.ID, "status", f.Status)
	return f, nil
}

// Remove deletes a pending or accepted friendship viewer is part of
func (s *Service) Remove(ctx context.Context, viewer, id uuid.UUID) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return ErrFriendshipNotFound
	}

	if err := access.CheckRemove(f, viewer); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrFriendshipNotFound
	}

	s.log.Info(ctx, "friendship removed", "friendship_id", id, "removed_by", viewer)
	return nil
}

// PurgeDeclined deletes declined records older than retention so the pair
// may connect again
func (s *Service) PurgeDeclined(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.DeleteDeclinedBefore(ctx, s.now().Add(-retention))
}

// notify resolves the actor's display name and runs send. Failures are logged;
// the friendship change has already been stored.
func (s *Service) notify(ctx context.Context, actor uuid.UUID, send func(name string) error) {
	p, err := s.profiles.GetByID(ctx, actor)
	if err != nil || p == nil {
		s.log.Warn(ctx, "could not resolve notification sender", "user_id", actor, "error", err)
		return
	}
	if err := send(p.FullName()); err != nil {
		s.log.Warn(ctx, "failed to create notification", "user_id", actor, "error", err)
	}
}

func matches(c *ConnectionResponse, query string) bool {
	if strings.Contains(strings.ToLower(c.Friend.FirstName+" "+c.Friend.LastName), query) {
		return true
	}
	return c.Friend.Email != nil && strings.Contains(strings.ToLower(*c.Friend.Email), query)
}
