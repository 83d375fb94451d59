package message

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
)

const selectMessages = `
	SELECT m.id, m.title, m.content, m.message_type, m.visibility, m.created_by, m.created_at,
	       COALESCE(p.first_name || ' ' || p.last_name, ''), COALESCE(p.role, '')
	FROM messages m
	LEFT JOIN user_profiles p ON p.id = m.created_by`

// Repository handles message data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new message repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a message and assigns its ID and creation time
func (r *Repository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO messages (id, title, content, message_type, visibility, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	id := uuid.New()
	err := r.db.QueryRowContext(ctx, query, id, m.Title, m.Content, m.Type, m.Visibility, m.CreatedBy).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	m.ID = id
	return nil
}

// GetByID retrieves a message with its creator details
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, selectMessages+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return m, nil
}

// List returns messages newest first, optionally of one type. Visibility is
// decided by the caller.
func (r *Repository) List(ctx context.Context, msgType *access.MessageType) ([]*Message, error) {
	query := selectMessages
	var args []any
	if msgType != nil {
		query += ` WHERE m.message_type = $1`
		args = append(args, *msgType)
	}
	query += ` ORDER BY m.created_at DESC, m.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (*Message, error) {
	m := &Message{}
	var msgType, visibility, role string

	if err := s.Scan(
		&m.ID,
		&m.Title,
		&m.Content,
		&msgType,
		&visibility,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.CreatorName,
		&role,
	); err != nil {
		return nil, err
	}

	// unknown values are kept as-is; the visibility check rejects them
	m.Type = access.MessageType(msgType)
	m.Visibility = access.ContentVisibility(visibility)
	m.CreatorRole = access.Role(role)
	return m, nil
}
