package message

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/internal/logging"
	"github.com/fkhayef/fellowship/pkg/response"
)

// ErrMessageNotFound covers missing messages and messages hidden from the viewer
var ErrMessageNotFound = fmt.Errorf("message %w", access.ErrNotFound)

// Store is the persistence the service depends on
type Store interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	List(ctx context.Context, msgType *access.MessageType) ([]*Message, error)
}

// Relationships returns every friendship record an account is part of
type Relationships interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*access.Friendship, error)
}

// Service handles message business logic
type Service struct {
	repo    Store
	friends Relationships
	log     logging.Logger
}

// NewService creates a new message service
func NewService(repo Store, friends Relationships, log logging.Logger) *Service {
	return &Service{repo: repo, friends: friends, log: log}
}

// List returns the messages viewer may see, newest first. msgType is optional.
func (s *Service) List(ctx context.Context, viewer access.Viewer, msgType string, page, perPage int) ([]*Message, int, error) {
	var filter *access.MessageType
	if msgType != "" {
		t, err := access.ParseMessageType(msgType)
		if err != nil {
			return nil, 0, err
		}
		filter = &t
	}

	messages, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	friendships, err := s.friends.ListForUser(ctx, viewer.ID)
	if err != nil {
		return nil, 0, err
	}

	// Visibility depends on the viewer's friendships and role, so rows are
	// filtered here and paged in memory. total counts only visible rows.
	visible := access.ContentFilter(viewer, friendships)
	var out []*Message
	for _, m := range messages {
		if visible(m.AccessContent()) {
			out = append(out, m)
		}
	}

	return response.Paginate(out, page, perPage), len(out), nil
}

// Get returns one message if viewer may see it
func (s *Service) Get(ctx context.Context, viewer access.Viewer, id uuid.UUID) (*Message, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMessageNotFound
	}

	friendships, err := s.friends.ListForUser(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	if !access.ContentFilter(viewer, friendships)(m.AccessContent()) {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

// Create posts a message. The viewer's role must allow the requested visibility.
func (s *Service) Create(ctx context.Context, viewer access.Viewer, req *CreateMessageRequest) (*Message, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("title and content are required: %w", access.ErrInvalidValue)
	}

	msgType, err := access.ParseMessageType(req.MessageType)
	if err != nil {
		return nil, err
	}
	visibility, err := access.ParseContentVisibility(req.Visibility)
	if err != nil {
		return nil, err
	}
	if err := access.CheckAssign(viewer.Role, visibility); err != nil {
		return nil, err
	}

	m := &Message{
		Title:      title,
		Content:    content,
		Type:       msgType,
		Visibility: visibility,
		CreatedBy:  viewer.ID,
	}
	if err := s.Publish(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Publish stores an already authorized message
func (s *Service) Publish(ctx context.Context, m *Message) error {
	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}

	s.log.Info(ctx, "message posted", "message_id", m.ID, "visibility", m.Visibility, "created_by", m.CreatedBy)
	return nil
}

// VisibilityOptions lists the visibility tiers viewer may publish at
func (s *Service) VisibilityOptions(viewer access.Viewer) *VisibilityOptionsResponse {
	return &VisibilityOptionsResponse{
		Role:    viewer.Role,
		Options: access.AssignableVisibilities(viewer.Role),
	}
}
