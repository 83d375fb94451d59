package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/internal/logging"
)

// Common errors
var (
	ErrNotificationNotFound = fmt.Errorf("notification %w", access.ErrNotFound)
	ErrNotRecipient         = fmt.Errorf("not the recipient of this notification: %w", access.ErrUnauthorized)
)

// Store is the persistence the service depends on
type Store interface {
	Create(ctx context.Context, recipientID uuid.UUID, message string, entityType *EntityType, entityID *uuid.UUID) (*Notification, error)
	CreateMany(ctx context.Context, recipientIDs []uuid.UUID, message string, entityType *EntityType, entityID *uuid.UUID) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListByRecipientID(ctx context.Context, recipientID uuid.UUID, limit, offset int, unreadOnly bool) ([]*Notification, int, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error
	GetUnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error)
}

// Service handles notification business logic
type Service struct {
	repo Store
	log  logging.Logger
}

// NewService creates a new notification service
func NewService(repo Store, log logging.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID retrieves a notification by its ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

// ListByRecipientID retrieves all notifications for a user
func (s *Service) ListByRecipientID(ctx context.Context, recipientID uuid.UUID, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read. Only its recipient may do so.
func (s *Service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification == nil {
		return ErrNotificationNotFound
	}
	if notification.RecipientID != userID {
		return ErrNotRecipient
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user
func (s *Service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// Helper methods for creating specific notification types

// NotifyFriendRequest tells the addressee someone wants to connect
func (s *Service) NotifyFriendRequest(ctx context.Context, recipientID uuid.UUID, requesterName string, friendshipID uuid.UUID) error {
	message := requesterName + " sent you a friend request"
	entityType := EntityFriendship
	_, err := s.repo.Create(ctx, recipientID, message, &entityType, &friendshipID)
	return err
}

// NotifyFriendAccepted tells the requester their request was accepted
func (s *Service) NotifyFriendAccepted(ctx context.Context, recipientID uuid.UUID, addresseeName string, friendshipID uuid.UUID) error {
	message := addresseeName + " accepted your friend request"
	entityType := EntityFriendship
	_, err := s.repo.Create(ctx, recipientID, message, &entityType, &friendshipID)
	return err
}

// NotifyMailingListMessage tells list members a message was sent to the list
func (s *Service) NotifyMailingListMessage(ctx context.Context, recipientIDs []uuid.UUID, listName, subject string, messageID uuid.UUID) error {
	message := fmt.Sprintf("New message in %s: %s", listName, subject)
	entityType := EntityMessage
	n, err := s.repo.CreateMany(ctx, recipientIDs, message, &entityType, &messageID)
	if err != nil {
		return err
	}

	s.log.Debug(ctx, "mailing list notifications created", "message_id", messageID, "count", n)
	return nil
}
