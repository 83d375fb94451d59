package mailinglist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/internal/database"
	"github.com/fkhayef/fellowship/internal/logging"
	"github.com/fkhayef/fellowship/internal/message"
)

// Common errors
var (
	ErrMailingListNotFound = fmt.Errorf("mailing list %w", access.ErrNotFound)
	ErrNotMember           = fmt.Errorf("membership %w", access.ErrNotFound)
	ErrAlreadyMember       = errors.New("already a member of this mailing list")
)

// Store is the persistence the service depends on
type Store interface {
	Create(ctx context.Context, l *MailingList) error
	GetByID(ctx context.Context, id, viewer uuid.UUID) (*MailingList, error)
	List(ctx context.Context, viewer uuid.UUID) ([]*MailingList, error)
	AddMember(ctx context.Context, listID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, listID, userID uuid.UUID) (bool, error)
	GetMembers(ctx context.Context, listID uuid.UUID) ([]*Member, error)
}

// Relationships returns every friendship record an account is part of
type Relationships interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*access.Friendship, error)
}

// Publisher stores broadcast messages in the feed
type Publisher interface {
	Publish(ctx context.Context, m *message.Message) error
}

// Notifier tells members about a broadcast
type Notifier interface {
	NotifyMailingListMessage(ctx context.Context, recipientIDs []uuid.UUID, listName, subject string, messageID uuid.UUID) error
}

// Service handles mailing list business logic
type Service struct {
	repo      Store
	friends   Relationships
	publisher Publisher
	notifier  Notifier
	log       logging.Logger
}

// NewService creates a new mailing list service
func NewService(repo Store, friends Relationships, publisher Publisher, notifier Notifier, log logging.Logger) *Service {
	return &Service{repo: repo, friends: friends, publisher: publisher, notifier: notifier, log: log}
}

// List returns the lists viewer may see, newest first
func (s *Service) List(ctx context.Context, viewer access.Viewer) ([]*MailingList, error) {
	lists, err := s.repo.List(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	friendships, err := s.friends.ListForUser(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	visible := access.ContentFilter(viewer, friendships)
	out := make([]*MailingList, 0, len(lists))
	for _, l := range lists {
		if visible(l.accessContent()) {
			out = append(out, l)
		}
	}
	return out, nil
}

// Create adds a list. The viewer's role must allow the requested privacy level.
func (s *Service) Create(ctx context.Context, viewer access.Viewer, req *CreateMailingListRequest) (*MailingList, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", access.ErrInvalidValue)
	}

	privacy, err := access.ParseContentVisibility(req.PrivacyLevel)
	if err != nil {
		return nil, err
	}
	if err := access.CheckAssign(viewer.Role, privacy); err != nil {
		return nil, err
	}

	l := &MailingList{
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		PrivacyLevel: privacy,
		CreatedBy:    viewer.ID,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "mailing list created", "list_id", l.ID, "privacy_level", l.PrivacyLevel)
	return l, nil
}

// Get returns a list and its members, with emails redacted for viewer.
// Lists hidden from viewer are reported as not found.
func (s *Service) Get(ctx context.Context, viewer access.Viewer, id uuid.UUID) (*MailingList, []*MemberResponse, error) {
	l, friendships, err := s.visible(ctx, viewer, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	out := make([]*MemberResponse, len(members))
	for i, m := range members {
		out[i] = m.viewAs(viewer.ID, friendships)
	}
	return l, out, nil
}

// Join adds viewer to a list it can see
func (s *Service) Join(ctx context.Context, viewer access.Viewer, id uuid.UUID) error {
	l, _, err := s.visible(ctx, viewer, id)
	if err != nil {
		return err
	}
	if l.IsMember {
		return ErrAlreadyMember
	}

	if err := s.repo.AddMember(ctx, id, viewer.ID); err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyMember
		}
		return err
	}
	return nil
}

// Leave removes viewer from a list it can see
func (s *Service) Leave(ctx context.Context, viewer access.Viewer, id uuid.UUID) error {
	if _, _, err := s.visible(ctx, viewer, id); err != nil {
		return err
	}

	removed, err := s.repo.RemoveMember(ctx, id, viewer.ID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotMember
	}
	return nil
}

// Send broadcasts to a list. The owner, leaders and admins may send; a
// friends-level list reaches the owner's friends, so only the owner may send
// to it. The broadcast is stored as an announcement at the list's privacy
// level and every member other than the sender who can read it is notified.
func (s *Service) Send(ctx context.Context, viewer access.Viewer, id uuid.UUID, req *SendRequest) (*message.Message, int, error) {
	subject := strings.TrimSpace(req.Subject)
	content := strings.TrimSpace(req.Content)
	if subject == "" || content == "" {
		return nil, 0, fmt.Errorf("subject and content are required: %w", access.ErrInvalidValue)
	}

	l, friendships, err := s.visible(ctx, viewer, id)
	if err != nil {
		return nil, 0, err
	}
	isOwner := l.CreatedBy == viewer.ID
	if !access.CanBroadcast(viewer.Role, isOwner) {
		return nil, 0, fmt.Errorf("only the list owner, leaders and admins can send: %w", access.ErrUnauthorized)
	}
	if l.PrivacyLevel == access.ContentFriends && !isOwner {
		return nil, 0, fmt.Errorf("only the owner can send to a friends-level list: %w", access.ErrUnauthorized)
	}

	msg := &message.Message{
		Title:      fmt.Sprintf("[%s] %s", l.Name, subject),
		Content:    content,
		Type:       access.MessageAnnouncement,
		Visibility: l.PrivacyLevel,
		CreatedBy:  viewer.ID,
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		return nil, 0, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	item := msg.AccessContent()
	recipients := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		if m.UserID == viewer.ID {
			continue
		}
		state := access.StatusBetween(friendships, m.UserID, viewer.ID)
		if access.CanViewContent(m.UserID, m.Role, item, state) {
			recipients = append(recipients, m.UserID)
		}
	}

	if len(recipients) > 0 {
		if err := s.notifier.NotifyMailingListMessage(ctx, recipients, l.Name, subject, msg.ID); err != nil {
			s.log.Warn(ctx, "failed to notify list members", "list_id", l.ID, "message_id", msg.ID, "error", err)
		}
	}

	s.log.Info(ctx, "mailing list broadcast", "list_id", l.ID, "message_id", msg.ID, "recipients", len(recipients))
	return msg, len(recipients), nil
}

// visible loads a list and checks viewer may see it
func (s *Service) visible(ctx context.Context, viewer access.Viewer, id uuid.UUID) (*MailingList, []*access.Friendship, error) {
	l, err := s.repo.GetByID(ctx, id, viewer.ID)
	if err != nil {
		return nil, nil, err
	}
	if l == nil {
		return nil, nil, ErrMailingListNotFound
	}

	friendships, err := s.friends.ListForUser(ctx, viewer.ID)
	if err != nil {
		return nil, nil, err
	}
	if !access.ContentFilter(viewer, friendships)(l.accessContent()) {
		return nil, nil, ErrMailingListNotFound
	}
	return l, friendships, nil
}
